package texture

import "github.com/chewxy/math32"

// Stripe pattern shaping.
const (
	stripeFloor   = 0.15 // luminance between bars
	stripeGain    = 0.85
	scanlineDim   = 0.55 // scanline brightness floor
	microStrength = 0.06
)

// SynthesizeStripe builds a size×size hazard/panel stripe bitmap. Three
// periodic signals are evaluated at the normalized pixel coordinate (u, v):
//
//	stripe = sin(2π·v·stripeFreq)^6
//	scan   = lerp(0.55, 1, 0.5+0.5·sin(2π·v·scanlineFreq))
//	micro  = 0.06·sin(2π·(u+v)·microFreq)
//
// and combined into lum = 0.15 + 0.85·stripe·scan + micro, written to R, G
// and B with opaque alpha. Integer frequencies tile seamlessly.
func SynthesizeStripe(size int, stripeFreq, scanlineFreq, microFreq float32) *Bitmap {
	size = clampSize(size)
	bm := newBitmap(size, WrapRepeat)
	inv := 1 / float32(size)

	// Stripe and scanline depend on v only.
	row := make([]float32, size)
	for y := 0; y < size; y++ {
		v := float32(y) * inv
		s := math32.Sin(2 * math32.Pi * v * stripeFreq)
		s2 := s * s
		stripe := s2 * s2 * s2
		scan := lerp(scanlineDim, 1, 0.5+0.5*math32.Sin(2*math32.Pi*v*scanlineFreq))
		row[y] = stripeFloor + stripeGain*stripe*scan
	}

	for y := 0; y < size; y++ {
		v := float32(y) * inv
		for x := 0; x < size; x++ {
			u := float32(x) * inv
			micro := microStrength * math32.Sin(2*math32.Pi*(u+v)*microFreq)
			l := toByte(row[y] + micro)
			bm.set(x, y, l, l, l, 255)
		}
	}
	return bm
}
