package texture

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeStripeDeterministic(t *testing.T) {
	a := SynthesizeStripe(256, 8, 64, 96)
	b := SynthesizeStripe(256, 8, 64, 96)
	require.Len(t, a.Pix, 256*256*4)
	assert.True(t, bytes.Equal(a.Pix, b.Pix))

	c := SynthesizeStripe(256, 9, 64, 96)
	assert.False(t, bytes.Equal(a.Pix, c.Pix))
}

func TestSynthesizeStripeLuminance(t *testing.T) {
	bm := SynthesizeStripe(256, 8, 64, 96)
	for i := 0; i < len(bm.Pix); i += 4 {
		require.Equal(t, bm.Pix[i], bm.Pix[i+1])
		require.Equal(t, bm.Pix[i], bm.Pix[i+2])
		require.Equal(t, uint8(255), bm.Pix[i+3])
	}

	// Between bars only the floor remains.
	assert.Equal(t, uint8(38), bm.At(0, 0).R)
	// Bar crest: stripe=1, scanline at mid blend.
	assert.InDelta(t, 206, int(bm.At(0, 8).R), 1)
	assert.Equal(t, WrapRepeat, bm.Wrap)
}

func TestDefaultStripeFrequencyOrder(t *testing.T) {
	p := DefaultStripe(256)
	assert.Equal(t, 256, p.Size)
	assert.Greater(t, p.StripeFreq, p.ScanlineFreq, "stripe bars must be denser than scanlines")
	assert.Greater(t, p.MicroFreq, p.StripeFreq, "micro grain must be the finest signal")

	dp, err := DefaultParams(KindStripe, 256)
	require.NoError(t, err)
	assert.Equal(t, p, dp)

	// Count bar crests down one column: one per stripe period.
	bm := SynthesizeStripe(256, p.StripeFreq, p.ScanlineFreq, 0)
	crests := 0
	for y := 1; y < 255; y++ {
		a, b, c := bm.At(0, y-1).R, bm.At(0, y).R, bm.At(0, y+1).R
		if b > a && b >= c && b > 100 {
			crests++
		}
	}
	assert.Equal(t, 2*int(p.StripeFreq), crests)
}

func TestSynthesizeRadialFalloff(t *testing.T) {
	const size = 64
	bm := SynthesizeRadialFalloff(size)
	assert.Equal(t, WrapClamp, bm.Wrap)

	center := bm.At(size/2, size/2)
	assert.Greater(t, center.A, uint8(240))
	assert.Equal(t, uint8(0), bm.At(0, 0).A)
	assert.Equal(t, uint8(0), bm.At(size-1, size-1).A)

	prev := uint8(255)
	for x := size / 2; x < size; x++ {
		c := bm.At(x, size/2)
		assert.Equal(t, uint8(255), c.R)
		assert.LessOrEqual(t, c.A, prev)
		prev = c.A
	}

	assert.True(t, bytes.Equal(bm.Pix, SynthesizeRadialFalloff(size).Pix))
}

func TestSynthesizeEnergy(t *testing.T) {
	a := SynthesizeEnergy(128, 4, 4)
	b := SynthesizeEnergy(128, 4, 4)
	assert.True(t, bytes.Equal(a.Pix, b.Pix))

	var lo, hi uint8 = 255, 0
	for i := 0; i < len(a.Pix); i += 4 {
		if a.Pix[i] < lo {
			lo = a.Pix[i]
		}
		if a.Pix[i] > hi {
			hi = a.Pix[i]
		}
	}
	assert.Greater(t, int(hi)-int(lo), 64)

	assert.Equal(t, a.At(127, 5), a.At(-1, 5))
	assert.Equal(t, a.At(5, 0), a.At(5, 128))
}

func TestLatticeWraps(t *testing.T) {
	for _, p := range []int{1, 3, 8} {
		assert.InDelta(t, valueNoise(0, 0.3, p, 2), valueNoise(0.9999999, 0.3, p, 2), 1e-3)
	}
}

func TestSizeClamping(t *testing.T) {
	bm := SynthesizeStripe(0, 8, 64, 96)
	assert.Equal(t, 1, bm.Width)
	assert.Len(t, bm.Pix, 4)

	assert.Equal(t, MaxSize, clampSize(MaxSize+1))
	assert.Equal(t, 1, clampSize(-7))
}

func TestImage(t *testing.T) {
	bm := SynthesizeEnergy(16, 2, 2)
	img := bm.Image()
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, bm.At(3, 7), img.NRGBAAt(3, 7))
}

func TestBuildTexture(t *testing.T) {
	for _, k := range Kinds {
		t.Run(string(k), func(t *testing.T) {
			p, err := DefaultParams(k, 32)
			require.NoError(t, err)
			bm, err := BuildTexture(k, p)
			require.NoError(t, err)
			assert.Equal(t, 32, bm.Width)
		})
	}
}

func TestTextureErrors(t *testing.T) {
	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"params of another kind", func() error {
			_, err := BuildTexture(KindEnergy, RadialParams{Size: 8})
			return err
		}, ErrKindMismatch},
		{"parse unknown kind", func() error {
			_, err := ParseKind("plasma")
			return err
		}, ErrUnknownKind},
		{"defaults for unknown kind", func() error {
			_, err := DefaultParams("plasma", 8)
			return err
		}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.call(), tt.want))
		})
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	p := StripeParams{Size: 32, StripeFreq: 4, ScanlineFreq: 16, MicroFreq: 8}

	a := c.Get(p)
	b := c.Get(p)
	assert.Same(t, a, b)

	c.Get(RadialParams{Size: 32})
	assert.Equal(t, 2, c.Len())
	c.Get(p)
	hits, misses := c.Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 2, misses)

	// Sizes that clamp to the same edge share an entry.
	c.Get(RadialParams{Size: -1})
	c.Get(RadialParams{Size: 0})
	assert.Equal(t, 3, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.NotSame(t, a, c.Get(p))
}
