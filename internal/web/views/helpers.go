package views

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/covers"
	"github.com/ch1kulya/mstories/internal/reader"
)

// Funcs is the function map the page templates are parsed with.
var Funcs = template.FuncMap{
	"statusLabel":  MapStatus,
	"sortLabel":    GetSortLabel,
	"metricLabel":  GetMetricLabel,
	"bgLabel":      GetBackgroundLabel,
	"fontLabel":    GetFontLabel,
	"count":        FormatCount,
	"words":        FormatWords,
	"rating":       FormatRating,
	"relativeTime": FormatRelativeTime,
	"coverURL":     ResolveCover,
	"coverStyle":   CoverStyle,
	"storyURL":     StoryURL,
	"readURL":      ReadURL,
	"authorURL":    AuthorURL,
	"readerStyle":  ReaderStyle,
	"percent":      func(v float64) int { return int(v) },
	"commentHTML":  func(s string) template.HTML { return template.HTML(s) },
	"inc":          func(i int) int { return i + 1 },
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

func MapStatus(status string) string {
	s := strings.ToLower(status)
	switch s {
	case "ongoing":
		return "Ongoing"
	case "completed":
		return "Completed"
	case "hiatus":
		return "Hiatus"
	default:
		if len(status) > 0 {
			return strings.ToUpper(status[:1]) + status[1:]
		}
		return status
	}
}

func GetSortLabel(sort catalog.SortKey) string {
	switch sort {
	case catalog.SortNewest:
		return "Recently updated"
	case catalog.SortHottest:
		return "Hottest"
	case catalog.SortTopRated:
		return "Top rated"
	case catalog.SortMostWords:
		return "Longest"
	case catalog.SortFresh:
		return "New arrivals"
	case catalog.SortDiscussed:
		return "Most discussed"
	case catalog.SortShuffle:
		return "Shuffle"
	default:
		return "Featured"
	}
}

func GetMetricLabel(m catalog.Metric) string {
	switch m {
	case catalog.MetricRating:
		return "Top rated"
	case catalog.MetricComments:
		return "Most discussed"
	default:
		return "Most viewed"
	}
}

func GetBackgroundLabel(m reader.BackgroundMode) string {
	switch m {
	case reader.BackgroundSepia:
		return "Sepia"
	case reader.BackgroundNight:
		return "Night"
	case reader.BackgroundDark:
		return "Dark"
	default:
		return "White"
	}
}

func GetFontLabel(f reader.FontFamily) string {
	if f == reader.FontSans {
		return "Sans"
	}
	return "Serif"
}

// FormatCount abbreviates counts of a thousand or more, 67800 -> "68K".
func FormatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.0fK", float64(n)/1000)
	}
	return fmt.Sprint(n)
}

func FormatWords(n int) string {
	if n == 1 {
		return "1 word"
	}
	return FormatCount(n) + " words"
}

func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

func ResolveCover(storyID string) string {
	return "/covers/" + url.PathEscape(storyID) + ".png"
}

// CoverStyle turns a stored cover colour into an inline style. Unparseable
// colours get the fallback grey.
func CoverStyle(c string) template.CSS {
	rgb, err := covers.ParseColor(c)
	if err != nil {
		rgb = covers.Fallback
	}
	return template.CSS(fmt.Sprintf("background-color: rgb(%d, %d, %d);", rgb.R, rgb.G, rgb.B))
}

func StoryURL(id string) string {
	return "/story/" + url.PathEscape(id)
}

func ReadURL(id string, number int) string {
	return fmt.Sprintf("/read/%s/%d", url.PathEscape(id), number)
}

func AuthorURL(name string) string {
	return "/author/" + url.PathEscape(name)
}

// ReaderStyle exposes the session's typography and palette as CSS
// variables on the reading surface.
func ReaderStyle(state reader.State) template.CSS {
	p := state.Preferences
	return template.CSS(fmt.Sprintf(
		"--reader-font-size: %dpx; --reader-line-height: %.1f; --reader-font: %s; --reader-bg: %s; --reader-fg: %s;",
		p.FontSize, p.LineHeight, p.FontFamily.CSS(), state.Palette.Background, state.Palette.Text,
	))
}

// Paragraphs splits chapter text on blank lines, falling back to single
// newlines for text written without them.
func Paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	sep := "\n\n"
	if !strings.Contains(content, sep) {
		sep = "\n"
	}

	var out []string
	for _, p := range strings.Split(content, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := time.Since(t)
	seconds := int(diff.Seconds())
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case seconds < 60:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, pluralize(minutes, "minute", "minutes"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, pluralize(hours, "hour", "hours"))
	case days < 30:
		return fmt.Sprintf("%d %s ago", days, pluralize(days, "day", "days"))
	case days < 365:
		months := days / 30
		return fmt.Sprintf("%d %s ago", months, pluralize(months, "month", "months"))
	default:
		years := days / 365
		return fmt.Sprintf("%d %s ago", years, pluralize(years, "year", "years"))
	}
}
