package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFontFamily(t *testing.T) {
	f, err := ParseFontFamily(" SERIF ")
	require.NoError(t, err)
	assert.Equal(t, FontSerif, f)

	_, err = ParseFontFamily("")
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestParseBackgroundMode(t *testing.T) {
	m, err := ParseBackgroundMode("Sepia")
	require.NoError(t, err)
	assert.Equal(t, BackgroundSepia, m)

	_, err = ParseBackgroundMode("grey")
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestPalettesAreDistinct(t *testing.T) {
	seen := map[Palette]BackgroundMode{}
	for _, m := range BackgroundModes {
		p := m.Palette()
		assert.NotEmpty(t, p.Background)
		assert.NotEmpty(t, p.Text)
		_, dup := seen[p]
		assert.False(t, dup, m)
		seen[p] = m
	}
}

func TestNormalize(t *testing.T) {
	p, err := Preferences{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), p)

	p, err = Preferences{FontSize: 3, LineHeight: 1.0, FontFamily: "Sans", BackgroundMode: "DARK"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Preferences{FontSize: MinFontSize, LineHeight: MinLineHeight, FontFamily: FontSans, BackgroundMode: BackgroundDark}, p)

	_, err = Preferences{BackgroundMode: "plaid"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestFontFamilyCSS(t *testing.T) {
	assert.Contains(t, FontSans.CSS(), "sans-serif")
	assert.Contains(t, FontSerif.CSS(), "serif")
}
