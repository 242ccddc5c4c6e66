// Package texture synthesizes square bitmaps from closed-form per-pixel
// functions. Nothing here reads image files: every pattern is a pure function
// of its parameters, so equal parameters give byte-identical pixels.
package texture

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// WrapMode tells the sampler what to do outside [0,1].
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

func (w WrapMode) String() string {
	if w == WrapClamp {
		return "clamp"
	}
	return "repeat"
}

// FilterMode selects magnification filtering.
type FilterMode uint8

const (
	FilterBilinear FilterMode = iota
	FilterPoint
)

func (f FilterMode) String() string {
	if f == FilterPoint {
		return "point"
	}
	return "bilinear"
}

// MaxSize is the largest edge length the synthesizers produce.
const MaxSize = 4096

var (
	ErrUnknownKind  = errors.New("texture: unknown kind")
	ErrKindMismatch = errors.New("texture: params do not match kind")
)

// Bitmap is a Width×Height grid of 8-bit RGBA samples, rows top to bottom.
// Bitmaps are read-only once synthesized.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8 // 4 bytes per sample, stride 4*Width
	Wrap   WrapMode
	Filter FilterMode
}

func newBitmap(size int, wrap WrapMode) *Bitmap {
	return &Bitmap{
		Width:  size,
		Height: size,
		Pix:    make([]uint8, 4*size*size),
		Wrap:   wrap,
		Filter: FilterBilinear,
	}
}

func (b *Bitmap) set(x, y int, r, g, bl, a uint8) {
	i := 4 * (y*b.Width + x)
	b.Pix[i+0] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// At returns the sample at (x, y), resolving out-of-range coordinates with
// the bitmap's wrap mode.
func (b *Bitmap) At(x, y int) color.NRGBA {
	x = wrapCoord(x, b.Width, b.Wrap)
	y = wrapCoord(y, b.Height, b.Wrap)
	i := 4 * (y*b.Width + x)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

func wrapCoord(v, n int, mode WrapMode) int {
	if mode == WrapClamp {
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Image copies the bitmap into a standard library image.
func (b *Bitmap) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

func clampSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toByte maps [0,1] to [0,255] with rounding.
func toByte(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
