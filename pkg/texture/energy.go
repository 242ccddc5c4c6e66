package texture

import "github.com/chewxy/math32"

// MaxOctaves bounds the fbm sum in SynthesizeEnergy.
const MaxOctaves = 8

// SynthesizeEnergy builds a tileable flowing-energy bitmap: bands along v are
// warped by fractal value noise. The lattice wraps at every octave, so the
// result tiles when scrolled. Output is grayscale luminance; the material
// color tints it.
func SynthesizeEnergy(size, frequency, octaves int) *Bitmap {
	size = clampSize(size)
	if frequency < 1 {
		frequency = 1
	}
	if octaves < 1 {
		octaves = 1
	}
	if octaves > MaxOctaves {
		octaves = MaxOctaves
	}
	bm := newBitmap(size, WrapRepeat)
	inv := 1 / float32(size)

	for y := 0; y < size; y++ {
		v := float32(y) * inv
		for x := 0; x < size; x++ {
			u := float32(x) * inv
			n := fbm(u, v, frequency, octaves)
			e := 0.5 + 0.5*math32.Sin(2*math32.Pi*(v*float32(frequency)+1.5*n))
			l := toByte(0.1 + 0.6*e*e*e + 0.4*n)
			bm.set(x, y, l, l, l, 255)
		}
	}
	return bm
}

// fbm sums octaves of periodic value noise, normalized to [0,1].
func fbm(u, v float32, period, octaves int) float32 {
	var sum, norm float32
	amp := float32(0.5)
	p := period
	for o := 0; o < octaves; o++ {
		sum += amp * valueNoise(u, v, p, uint32(o))
		norm += amp
		amp *= 0.5
		p *= 2
	}
	return sum / norm
}

// valueNoise interpolates hashed lattice values on a period×period grid that
// wraps at the unit square.
func valueNoise(u, v float32, period int, seed uint32) float32 {
	fx := u * float32(period)
	fy := v * float32(period)
	ix := int(math32.Floor(fx))
	iy := int(math32.Floor(fy))
	tx := fade(fx - float32(ix))
	ty := fade(fy - float32(iy))

	x0, x1 := wrapCoord(ix, period, WrapRepeat), wrapCoord(ix+1, period, WrapRepeat)
	y0, y1 := wrapCoord(iy, period, WrapRepeat), wrapCoord(iy+1, period, WrapRepeat)

	a := lerp(lattice(x0, y0, seed), lattice(x1, y0, seed), tx)
	b := lerp(lattice(x0, y1, seed), lattice(x1, y1, seed), tx)
	return lerp(a, b, ty)
}

func fade(t float32) float32 {
	return t * t * (3 - 2*t)
}

// lattice hashes an integer grid point to [0,1).
func lattice(x, y int, seed uint32) float32 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841 ^ (seed+1)*0xcb1ab31f
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float32(h>>8) / (1 << 24)
}
