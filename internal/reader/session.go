package reader

import (
	"errors"
	"fmt"
	"math"
)

var ErrChapterOutOfRange = errors.New("chapter out of range")

// ControlsRevealOffset is the scroll offset, in pixels, above which the
// floating chrome hides while the reader scrolls down.
const ControlsRevealOffset = 80

type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Session holds the view state of one open chapter. It is owned by a single
// view and is not safe for concurrent use.
type Session struct {
	prefs      Preferences
	maxChapter int
	chapter    int

	progress        float64
	lastScrollTop   float64
	controlsVisible bool
	bookmarked      bool
	settingsOpen    bool
}

type State struct {
	Preferences     Preferences `json:"preferences"`
	Palette         Palette     `json:"palette"`
	ChapterNumber   int         `json:"chapter_number"`
	MaxChapter      int         `json:"max_chapter"`
	HasPrev         bool        `json:"has_prev"`
	HasNext         bool        `json:"has_next"`
	ScrollProgress  float64     `json:"scroll_progress"`
	LastScrollTop   float64     `json:"last_scroll_top"`
	ControlsVisible bool        `json:"controls_visible"`
	Bookmarked      bool        `json:"bookmarked"`
	SettingsOpen    bool        `json:"settings_open"`
}

// NewSession opens chapter current of a story whose chapters are numbered
// 1..maxChapter without gaps.
func NewSession(maxChapter, current int, prefs Preferences) (*Session, error) {
	if maxChapter < 1 || current < 1 || current > maxChapter {
		return nil, fmt.Errorf("%w: chapter %d of %d", ErrChapterOutOfRange, current, maxChapter)
	}

	prefs, err := prefs.Normalize()
	if err != nil {
		return nil, err
	}

	return &Session{
		prefs:           prefs,
		maxChapter:      maxChapter,
		chapter:         current,
		controlsVisible: true,
	}, nil
}

// Restore rebuilds a session from a snapshot previously handed to a client.
func Restore(state State, maxChapter int) (*Session, error) {
	s, err := NewSession(maxChapter, state.ChapterNumber, state.Preferences)
	if err != nil {
		return nil, err
	}

	s.progress = clampPercent(state.ScrollProgress)
	s.lastScrollTop = max(state.LastScrollTop, 0)
	s.controlsVisible = state.ControlsVisible
	s.bookmarked = state.Bookmarked
	s.settingsOpen = state.SettingsOpen
	return s, nil
}

func (s *Session) Snapshot() State {
	return State{
		Preferences:     s.prefs,
		Palette:         s.prefs.BackgroundMode.Palette(),
		ChapterNumber:   s.chapter,
		MaxChapter:      s.maxChapter,
		HasPrev:         s.HasPrev(),
		HasNext:         s.HasNext(),
		ScrollProgress:  s.progress,
		LastScrollTop:   s.lastScrollTop,
		ControlsVisible: s.controlsVisible,
		Bookmarked:      s.bookmarked,
		SettingsOpen:    s.settingsOpen,
	}
}

func (s *Session) Preferences() Preferences { return s.prefs }
func (s *Session) ChapterNumber() int { return s.chapter }
func (s *Session) HasPrev() bool { return s.chapter > 1 }
func (s *Session) HasNext() bool { return s.chapter < s.maxChapter }
func (s *Session) Bookmarked() bool { return s.bookmarked }
func (s *Session) ControlsVisible() bool { return s.controlsVisible }
func (s *Session) ScrollProgress() float64 { return s.progress }
func (s *Session) SettingsOpen() bool { return s.settingsOpen }

func (s *Session) IncreaseFontSize() int {
	s.prefs.FontSize = clampFontSize(s.prefs.FontSize + FontSizeStep)
	return s.prefs.FontSize
}

func (s *Session) DecreaseFontSize() int {
	s.prefs.FontSize = clampFontSize(s.prefs.FontSize - FontSizeStep)
	return s.prefs.FontSize
}

func (s *Session) SetLineHeight(v float64) float64 {
	s.prefs.LineHeight = clampLineHeight(v)
	return s.prefs.LineHeight
}

// StepLineHeight moves the line height by steps increments of 0.1.
func (s *Session) StepLineHeight(steps int) float64 {
	return s.SetLineHeight(s.prefs.LineHeight + float64(steps)*LineHeightStep)
}

func (s *Session) SetFontFamily(f string) error {
	family, err := ParseFontFamily(f)
	if err != nil {
		return err
	}
	s.prefs.FontFamily = family
	return nil
}

func (s *Session) SetBackgroundMode(m string) error {
	mode, err := ParseBackgroundMode(m)
	if err != nil {
		return err
	}
	s.prefs.BackgroundMode = mode
	return nil
}

func (s *Session) ToggleBookmark() bool {
	s.bookmarked = !s.bookmarked
	return s.bookmarked
}

// Navigate moves to the neighbouring chapter. Moving past either end is a
// no-op and reports false.
func (s *Session) Navigate(d Direction) bool {
	target := s.chapter
	switch d {
	case Prev:
		target--
	case Next:
		target++
	default:
		return false
	}

	if target < 1 || target > s.maxChapter {
		return false
	}

	s.chapter = target
	s.progress = 0
	s.lastScrollTop = 0
	s.controlsVisible = true
	s.bookmarked = false
	return true
}

func (s *Session) UpdateScrollProgress(scrollTop, viewportHeight, documentHeight float64) float64 {
	if documentHeight <= viewportHeight {
		s.progress = 0
		return s.progress
	}
	s.progress = clampPercent(100 * scrollTop / (documentHeight - viewportHeight))
	return s.progress
}

// UpdateControlsVisibility shows the chrome while scrolling up or near the
// top of the page and hides it while scrolling down past the reveal offset.
func (s *Session) UpdateControlsVisibility(previousScrollTop, currentScrollTop float64) bool {
	s.controlsVisible = currentScrollTop < previousScrollTop || currentScrollTop < ControlsRevealOffset
	return s.controlsVisible
}

// Scroll applies one scroll event. Only the latest event matters, so callers
// may drop intermediate events.
func (s *Session) Scroll(scrollTop, viewportHeight, documentHeight float64) {
	s.UpdateScrollProgress(scrollTop, viewportHeight, documentHeight)
	s.UpdateControlsVisibility(s.lastScrollTop, scrollTop)
	s.lastScrollTop = max(scrollTop, 0)
}

func (s *Session) OpenSettings() { s.settingsOpen = true }
func (s *Session) CloseSettings() { s.settingsOpen = false }

func (s *Session) ToggleSettings() bool {
	s.settingsOpen = !s.settingsOpen
	return s.settingsOpen
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 100)
}
