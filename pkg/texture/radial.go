package texture

import "github.com/chewxy/math32"

// FalloffPower tightens the radial core.
const FalloffPower = 2

// SynthesizeRadialFalloff builds a soft round particle: white RGB with
// alpha = smoothstep(1-d)^FalloffPower, where d is the distance from the
// bitmap center normalized so the inscribed circle has radius 1. Pixels at
// or beyond the circle are fully transparent.
func SynthesizeRadialFalloff(size int) *Bitmap {
	size = clampSize(size)
	bm := newBitmap(size, WrapClamp)
	half := float32(size) / 2

	for y := 0; y < size; y++ {
		dy := (float32(y) + 0.5 - half) / half
		for x := 0; x < size; x++ {
			dx := (float32(x) + 0.5 - half) / half
			d := math32.Sqrt(dx*dx + dy*dy)
			a := math32.Pow(smoothstep(1-clamp01(d)), FalloffPower)
			bm.set(x, y, 255, 255, 255, toByte(a))
		}
	}
	return bm
}

// smoothstep is the cubic Hermite ramp 3t²-2t³ on [0,1].
func smoothstep(t float32) float32 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}
