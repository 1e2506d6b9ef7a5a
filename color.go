package svo

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidHex is returned by ParseHex for malformed input.
var ErrInvalidHex = errors.New("svo: invalid hex color")

// Voxel colors. The fourth component is left at zero; the renderer treats
// it as an emission weight, not opacity.
var (
	White  = V4(1, 1, 1, 0)
	Red    = V4(1, 0, 0, 0)
	Green  = V4(0, 1, 0, 0)
	Blue   = V4(0, 0, 1, 0)
	Yellow = V4(1, 1, 0, 0)
)

// ParseHex parses a color in one of the forms "RGB", "RGBA", "RRGGBB" or
// "RRGGBBAA", with an optional leading '#'. Components map to [0, 1]. A
// missing alpha yields 0.
func ParseHex(hex string) (Vec4, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	var ok bool
	switch len(hex) {
	case 3: // RGB
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	}
	if !ok {
		return Vec4{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	return Vec4{
		X: float32(r) / 255,
		Y: float32(g) / 255,
		Z: float32(b) / 255,
		W: float32(a) / 255,
	}, nil
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Opaque converts the RGB part of a voxel color to an opaque NRGBA.
func Opaque(c Vec4) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.X * 255)),
		G: uint8(clamp255(c.Y * 255)),
		B: uint8(clamp255(c.Z * 255)),
		A: 255,
	}
}

func clamp255(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
