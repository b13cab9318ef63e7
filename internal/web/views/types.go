package views

import (
	"html/template"

	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/ch1kulya/mstories/internal/reader"
)

type BaseProps struct {
	Title       string
	Description string
	Canonical   string
	Version     int64
	Schema      template.HTML
	OGImage     string
	Nav         string
	IsReader    bool
}

// Option is one selectable value of a filter group or settings menu.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

type FilterGroup struct {
	Legend  string
	Name    string
	Options []Option
}

type Tab struct {
	Label  string
	URL    string
	Active bool
}

type ContinueReading struct {
	Story           models.Story
	Chapter         int
	TotalChapters   int
	ProgressPercent int
}

type HomeProps struct {
	BaseProps
	Stories  []models.Story
	Filters  []FilterGroup
	Query    string
	Sort     catalog.SortKey
	SortTabs []Tab
	Filtered bool
	Top      []models.Story
	Continue *ContinueReading
}

type SearchProps struct {
	BaseProps
	Query   string
	Stories []models.Story
	Authors []models.AuthorStats
}

type StoryProps struct {
	BaseProps
	Story        models.Story
	Chapters     []models.ChapterSummary
	Related      []models.Story
	Comments     []models.Comment
	Continue     *ContinueReading
	CommentError string
}

type ReaderProps struct {
	BaseProps
	Story        models.Story
	Chapter      models.Chapter
	Paragraphs   []string
	State        reader.State
	PrevURL      string
	NextURL      string
	FontFamilies []Option
	Backgrounds  []Option
}

type RankingsProps struct {
	BaseProps
	Metric  catalog.Metric
	Tabs    []Tab
	Stories []models.Story
}

type AuthorProps struct {
	BaseProps
	Profile models.AuthorProfile
}

type ErrorProps struct {
	BaseProps
	ErrorCode    int
	ErrorTitle   string
	ErrorMessage string
}
