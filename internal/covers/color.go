package covers

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid cover color")

// Fallback is used for stories whose cover colour cannot be parsed.
var Fallback = color.RGBA{R: 0xec, G: 0xf0, B: 0xf1, A: 0xff}

// ParseColor accepts CSS hsl() in either space or comma syntax and #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	body, ok := strings.CutPrefix(s, "hsl(")
	if !ok || !strings.HasSuffix(body, ")") {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	parts := strings.FieldsFunc(strings.TrimSuffix(body, ")"), func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	var v [3]float64
	for i, p := range parts {
		p = strings.TrimSuffix(strings.TrimSuffix(p, "deg"), "%")
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v[i] = f
	}
	if v[1] < 0 || v[1] > 100 || v[2] < 0 || v[2] > 100 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return hsl(v[0], v[1]/100, v[2]/100), nil
}

func hsl(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(b + m),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// shade scales each channel by f, keeping alpha.
func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*f)),
		G: uint8(math.Min(255, float64(c.G)*f)),
		B: uint8(math.Min(255, float64(c.B)*f)),
		A: c.A,
	}
}
