package reader

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidPreference = errors.New("invalid preference")

const (
	MinFontSize     = 14
	MaxFontSize     = 28
	FontSizeStep    = 2
	DefaultFontSize = 18

	MinLineHeight     = 1.4
	MaxLineHeight     = 2.4
	LineHeightStep    = 0.1
	DefaultLineHeight = 1.8
)

type FontFamily string

const (
	FontSerif FontFamily = "serif"
	FontSans  FontFamily = "sans"
)

var FontFamilies = []FontFamily{FontSerif, FontSans}

// CSS returns the font stack used by the reading surface.
func (f FontFamily) CSS() string {
	if f == FontSans {
		return "Inter, system-ui, sans-serif"
	}
	return "Literata, Georgia, serif"
}

func ParseFontFamily(s string) (FontFamily, error) {
	f := FontFamily(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FontFamilies {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: font family %q", ErrInvalidPreference, s)
}

type BackgroundMode string

const (
	BackgroundWhite BackgroundMode = "white"
	BackgroundSepia BackgroundMode = "sepia"
	BackgroundNight BackgroundMode = "night"
	BackgroundDark  BackgroundMode = "dark"
)

var BackgroundModes = []BackgroundMode{BackgroundWhite, BackgroundSepia, BackgroundNight, BackgroundDark}

type Palette struct {
	Background string `json:"background"`
	Text       string `json:"text"`
}

var palettes = map[BackgroundMode]Palette{
	BackgroundWhite: {Background: "#ffffff", Text: "#1a1a1a"},
	BackgroundSepia: {Background: "#f4ecd8", Text: "#5b4636"},
	BackgroundNight: {Background: "#1e2330", Text: "#c8ccd4"},
	BackgroundDark:  {Background: "#000000", Text: "#b3b3b3"},
}

func (m BackgroundMode) Palette() Palette {
	if p, ok := palettes[m]; ok {
		return p
	}
	return palettes[BackgroundWhite]
}

func ParseBackgroundMode(s string) (BackgroundMode, error) {
	m := BackgroundMode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palettes[m]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: background mode %q", ErrInvalidPreference, s)
}

type Preferences struct {
	FontSize       int            `json:"font_size"`
	LineHeight     float64        `json:"line_height"`
	FontFamily     FontFamily     `json:"font_family"`
	BackgroundMode BackgroundMode `json:"background_mode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		FontSize:       DefaultFontSize,
		LineHeight:     DefaultLineHeight,
		FontFamily:     FontSerif,
		BackgroundMode: BackgroundWhite,
	}
}

// Normalize clamps the numeric fields and validates the enums. Zero
// values take their defaults.
func (p Preferences) Normalize() (Preferences, error) {
	if p.FontSize == 0 {
		p.FontSize = DefaultFontSize
	}
	p.FontSize = clampFontSize(p.FontSize)

	if p.LineHeight == 0 {
		p.LineHeight = DefaultLineHeight
	}
	p.LineHeight = clampLineHeight(p.LineHeight)

	if p.FontFamily == "" {
		p.FontFamily = FontSerif
	} else {
		f, err := ParseFontFamily(string(p.FontFamily))
		if err != nil {
			return Preferences{}, err
		}
		p.FontFamily = f
	}

	if p.BackgroundMode == "" {
		p.BackgroundMode = BackgroundWhite
	} else {
		m, err := ParseBackgroundMode(string(p.BackgroundMode))
		if err != nil {
			return Preferences{}, err
		}
		p.BackgroundMode = m
	}

	return p, nil
}

func clampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

func clampLineHeight(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultLineHeight
	}
	v = math.Round(v*10) / 10
	return min(max(v, MinLineHeight), MaxLineHeight)
}
