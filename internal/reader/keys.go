package reader

import "strings"

type Command string

const (
	CommandNone          Command = ""
	CommandPrevChapter   Command = "prev_chapter"
	CommandNextChapter   Command = "next_chapter"
	CommandFontUp        Command = "font_up"
	CommandFontDown      Command = "font_down"
	CommandBookmark      Command = "bookmark"
	CommandCloseSettings Command = "close_settings"
)

var keyBindings = map[string]Command{
	"ArrowLeft":  CommandPrevChapter,
	"ArrowRight": CommandNextChapter,
	"+":          CommandFontUp,
	"=":          CommandFontUp,
	"-":          CommandFontDown,
	"_":          CommandFontDown,
	"b":          CommandBookmark,
	"B":          CommandBookmark,
	"Escape":     CommandCloseSettings,
}

// KeyEvent is a key press as reported by the browser: Key is
// KeyboardEvent.key, Target the tag name of the focused element.
type KeyEvent struct {
	Key             string `json:"key"`
	Target          string `json:"target,omitempty"`
	ContentEditable bool   `json:"content_editable,omitempty"`
}

func (e KeyEvent) InTextField() bool {
	if e.ContentEditable {
		return true
	}
	switch strings.ToLower(e.Target) {
	case "input", "textarea":
		return true
	}
	return false
}

// CommandFor maps a key press to a reader command. Presses inside text
// fields map to nothing so typing is never hijacked.
func CommandFor(e KeyEvent) Command {
	if e.InTextField() {
		return CommandNone
	}
	return keyBindings[e.Key]
}

// HandleKey runs the command bound to e and reports which one ran.
func (s *Session) HandleKey(e KeyEvent) (Command, bool) {
	cmd := CommandFor(e)
	switch cmd {
	case CommandPrevChapter:
		s.Navigate(Prev)
	case CommandNextChapter:
		s.Navigate(Next)
	case CommandFontUp:
		s.IncreaseFontSize()
	case CommandFontDown:
		s.DecreaseFontSize()
	case CommandBookmark:
		s.ToggleBookmark()
	case CommandCloseSettings:
		s.CloseSettings()
	default:
		return CommandNone, false
	}
	return cmd, true
}
