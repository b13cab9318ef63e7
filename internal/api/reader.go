package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ch1kulya/mstories/internal/models"
	"github.com/ch1kulya/mstories/internal/reader"
	"github.com/danielgtaylor/huma/v2"
)

type ReaderEventsInput struct {
	StoryID string `path:"storyId"`
	Body    struct {
		State       *reader.State       `json:"state,omitempty" doc:"Snapshot returned by the previous call; omit to open a chapter"`
		Chapter     int                 `json:"chapter,omitempty" minimum:"0" doc:"Chapter to open when no state is sent, defaults to 1"`
		Preferences *reader.Preferences `json:"preferences,omitempty" doc:"Initial preferences when no state is sent"`
		Events      []reader.Event      `json:"events,omitempty" maxItems:"100"`
	}
}

type ReaderEventsBody struct {
	State   reader.State          `json:"state"`
	Chapter models.ChapterSummary `json:"chapter"`
}

type ReaderEventsOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      ReaderEventsBody
}

// ReaderEvents replays a batch of reader events on the client's snapshot
// and returns the new one. The preferences go back as session cookies so
// the next chapter page opens with them; nothing is kept on the server.
func (h *Handlers) ReaderEvents(ctx context.Context, input *ReaderEventsInput) (*ReaderEventsOutput, error) {
	chapters, err := h.store.Chapters(ctx, input.StoryID)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	maxChapter := chapters.Count

	var session *reader.Session
	if input.Body.State != nil {
		session, err = reader.Restore(*input.Body.State, maxChapter)
	} else {
		prefs := reader.DefaultPreferences()
		if input.Body.Preferences != nil {
			prefs = *input.Body.Preferences
		}
		session, err = reader.NewSession(maxChapter, max(input.Body.Chapter, 1), prefs)
	}
	if err != nil {
		return nil, readerError(err, -1)
	}

	for i, e := range input.Body.Events {
		if err := session.Apply(e); err != nil {
			return nil, readerError(err, i)
		}
	}

	number := session.ChapterNumber()
	var current models.ChapterSummary
	for _, c := range chapters.Chapters {
		if c.ChapterNumber == number {
			current = c
			break
		}
	}

	return &ReaderEventsOutput{
		SetCookie: reader.PreferenceCookies(input.StoryID, session.Preferences()),
		Body:      ReaderEventsBody{State: session.Snapshot(), Chapter: current},
	}, nil
}

func readerError(err error, event int) error {
	location := "body.state"
	if event >= 0 {
		location = fmt.Sprintf("body.events[%d]", event)
	}
	detail := &huma.ErrorDetail{Message: err.Error(), Location: location}

	switch {
	case errors.Is(err, reader.ErrChapterOutOfRange):
		return huma.Error404NotFound("Chapter not found", detail)
	case errors.Is(err, reader.ErrInvalidPreference), errors.Is(err, reader.ErrUnknownEvent):
		return huma.Error422UnprocessableEntity("Invalid reader event", detail)
	default:
		return huma.Error500InternalServerError("Reader failure")
	}
}
