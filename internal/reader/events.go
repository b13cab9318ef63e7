package reader

import (
	"errors"
	"fmt"
)

var ErrUnknownEvent = errors.New("unknown event")

type EventType string

const (
	EventFontIncrease   EventType = "font_increase"
	EventFontDecrease   EventType = "font_decrease"
	EventLineHeight     EventType = "line_height"
	EventLineHeightStep EventType = "line_height_step"
	EventFontFamily     EventType = "font_family"
	EventBackground     EventType = "background"
	EventBookmark       EventType = "bookmark"
	EventNavigate       EventType = "navigate"
	EventScroll         EventType = "scroll"
	EventKey            EventType = "key"
	EventSettings       EventType = "settings"
)

// Event is one input from the presentation layer. Value carries enum
// arguments (font family, background mode, direction, open|close|toggle),
// Number carries the line height or step count.
type Event struct {
	Type           EventType `json:"type"`
	Value          string    `json:"value,omitempty"`
	Number         float64   `json:"number,omitempty"`
	ScrollTop      float64   `json:"scroll_top,omitempty"`
	ViewportHeight float64   `json:"viewport_height,omitempty"`
	DocumentHeight float64   `json:"document_height,omitempty"`
	Key            KeyEvent  `json:"key,omitempty"`
}

func (s *Session) Apply(e Event) error {
	switch e.Type {
	case EventFontIncrease:
		s.IncreaseFontSize()
	case EventFontDecrease:
		s.DecreaseFontSize()
	case EventLineHeight:
		s.SetLineHeight(e.Number)
	case EventLineHeightStep:
		s.StepLineHeight(int(e.Number))
	case EventFontFamily:
		return s.SetFontFamily(e.Value)
	case EventBackground:
		return s.SetBackgroundMode(e.Value)
	case EventBookmark:
		s.ToggleBookmark()
	case EventNavigate:
		d := Direction(e.Value)
		if d != Prev && d != Next {
			return fmt.Errorf("%w: navigate %q", ErrUnknownEvent, e.Value)
		}
		s.Navigate(d)
	case EventScroll:
		s.Scroll(e.ScrollTop, e.ViewportHeight, e.DocumentHeight)
	case EventKey:
		s.HandleKey(e.Key)
	case EventSettings:
		switch e.Value {
		case "open":
			s.OpenSettings()
		case "close":
			s.CloseSettings()
		case "", "toggle":
			s.ToggleSettings()
		default:
			return fmt.Errorf("%w: settings %q", ErrUnknownEvent, e.Value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}
