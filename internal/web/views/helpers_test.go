package views

import (
	"html/template"
	"testing"
	"time"

	"github.com/ch1kulya/mstories/internal/reader"
	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{67800, "68K"},
		{125000, "125K"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.n))
	}
	assert.Equal(t, "1 word", FormatWords(1))
	assert.Equal(t, "85K words", FormatWords(85000))
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, "Ongoing", MapStatus("ongoing"))
	assert.Equal(t, "Hiatus", MapStatus("HIATUS"))
	assert.Equal(t, "Dropped", MapStatus("dropped"))
	assert.Equal(t, "", MapStatus(""))
}

func TestCoverStyle(t *testing.T) {
	assert.Equal(t, template.CSS("background-color: rgb(255, 0, 0);"), CoverStyle("hsl(0 100% 50%)"))
	assert.Equal(t, template.CSS("background-color: rgb(236, 240, 241);"), CoverStyle("url(javascript:x)"))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/story/1", StoryURL("1"))
	assert.Equal(t, "/read/1/3", ReadURL("1", 3))
	assert.Equal(t, "/author/Dark%20Soul", AuthorURL("Dark Soul"))
	assert.Equal(t, "/covers/7.png", ResolveCover("7"))
}

func TestReaderStyle(t *testing.T) {
	prefs := reader.DefaultPreferences()
	prefs.BackgroundMode = reader.BackgroundSepia
	state := reader.State{Preferences: prefs, Palette: prefs.BackgroundMode.Palette()}

	style := string(ReaderStyle(state))
	assert.Contains(t, style, "--reader-font-size: 18px;")
	assert.Contains(t, style, "--reader-line-height: 1.8;")
	assert.Contains(t, style, "--reader-bg: #f4ecd8;")
	assert.Contains(t, style, "--reader-fg: #5b4636;")
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two."}, Paragraphs("One.\r\n\r\n  Two.  \n\n\n"))
	assert.Equal(t, []string{"Line one", "Line two"}, Paragraphs("Line one\nLine two"))
	assert.Nil(t, Paragraphs("   "))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRelativeTime(tt.at))
	}
}
