package covers

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"unicode"

	"github.com/ch1kulya/mstories/internal/models"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 200
	Height = 300

	bandHeight  = 72
	margin      = 10
	maxLines    = 3
	initialSize = 120
)

var ink = color.RGBA{R: 0x2c, G: 0x2c, B: 0x2c, A: 0xff}

// Render draws the cover: the story colour, its initial scaled up in the
// upper part and the title wrapped in a darker band at the bottom.
func Render(story models.Story) *image.RGBA {
	bg, err := ParseColor(story.CoverColor)
	if err != nil {
		bg = Fallback
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	drawInitial(img, Initial(story.Title))

	band := image.Rect(0, Height-bandHeight, Width, Height)
	draw.Draw(img, band, image.NewUniform(shade(bg, 0.9)), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	lines := Wrap(story.Title, (Width-2*margin)/face.Advance, maxLines)
	y := band.Min.Y + (bandHeight-len(lines)*lineHeight)/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(ink),
			Face: face,
		}
		x := (Width - d.MeasureString(line).Ceil()) / 2
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		y += lineHeight
	}

	return img
}

func drawInitial(dst *image.RGBA, r rune) {
	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, face.Width, face.Height))
	d := &font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(color.RGBA{R: ink.R, G: ink.G, B: ink.B, A: 0x99}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(r))

	w := initialSize * face.Width / face.Height
	x := (Width - w) / 2
	y := (Height - bandHeight - initialSize) / 2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+initialSize), glyph, glyph.Bounds(), xdraw.Over, nil)
}

// Initial is the upper-cased first letter or digit of title, '?' when the
// title has none the bitmap font can draw.
func Initial(title string) rune {
	for _, r := range title {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
	}
	return '?'
}

// Wrap breaks s into at most maxLines lines of width columns. Overflow is
// cut with "...".
func Wrap(s string, width, maxLines int) []string {
	if width < 4 || maxLines < 1 {
		return nil
	}

	var lines []string
	var cur []rune
	for _, word := range strings.Fields(asciiOnly(s)) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = strings.TrimRight(string(last), " ") + "..."
	}
	return lines
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return '?'
		}
		return r
	}, s)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
