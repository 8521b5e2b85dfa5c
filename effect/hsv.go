package effect

import "math"

// RGBToHSV converts 8-bit color channels to hue in degrees [0, 360) and
// saturation and value in [0, 1].
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	d := hi - lo

	if d != 0 {
		switch hi {
		case rf:
			h = math.Mod((gf-bf)/d, 6)
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
	}
	h = math.Mod(h*60+360, 360)

	if hi != 0 {
		s = d / hi
	}

	return h, s, hi
}

// HSVToRGB converts hue in degrees and saturation and value in [0, 1] back
// to color channels in [0, 255]. The result is not rounded; hues outside
// [0, 360) fall into the first or last sector.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h /= 60
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	m := v - c

	switch {
	case h < 1:
		r, g, b = c, x, 0
	case h < 2:
		r, g, b = x, c, 0
	case h < 3:
		r, g, b = 0, c, x
	case h < 4:
		r, g, b = 0, x, c
	case h < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return (r + m) * 255, (g + m) * 255, (b + m) * 255
}

// clamp stores f in a byte, rounding half to even and mapping NaN to zero.
func clamp(f float64) uint8 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(math.RoundToEven(f))
}
