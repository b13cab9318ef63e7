package api

import (
	"context"
	"errors"

	"github.com/ch1kulya/mstories/internal/editor"
	"github.com/danielgtaylor/huma/v2"
)

type ValidateStoryInput struct {
	Body struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Genre       string `json:"genre"`
		Status      string `json:"status"`
		Tags        string `json:"tags,omitempty" doc:"Comma-separated"`
	}
}

type ValidateChapterInput struct {
	Body struct {
		StoryID string `json:"story_id"`
		Number  int    `json:"chapter_number,omitempty" doc:"Defaults to the next free number"`
		Title   string `json:"title"`
		Part    string `json:"part,omitempty"`
		Content string `json:"content"`
		Locked  bool   `json:"locked,omitempty"`
		Price   int    `json:"price,omitempty"`
	}
}

type ChapterDraftBody struct {
	Chapter   editor.ChapterDraft `json:"chapter"`
	WordCount int                 `json:"word_count"`
}

func draftError(err error) error {
	var verr *editor.ValidationError
	if !errors.As(err, &verr) {
		return huma.Error500InternalServerError("Validation failed")
	}

	details := make([]error, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, &huma.ErrorDetail{
			Message:  f.Message,
			Location: "body." + f.Field,
		})
	}
	return huma.Error422UnprocessableEntity("Draft is invalid", details...)
}

func (h *Handlers) ValidateStory(ctx context.Context, input *ValidateStoryInput) (*struct{ Body *editor.StoryDraft }, error) {
	b := input.Body
	draft, err := editor.ValidateStory(b.Title, b.Description, b.Genre, b.Status, b.Tags)
	if err != nil {
		return nil, draftError(err)
	}
	return &struct{ Body *editor.StoryDraft }{Body: draft}, nil
}

func (h *Handlers) ValidateChapter(ctx context.Context, input *ValidateChapterInput) (*struct{ Body ChapterDraftBody }, error) {
	b := input.Body
	chapters, err := h.store.Chapters(ctx, b.StoryID)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}

	number := b.Number
	if number == 0 {
		number = editor.NextChapterNumber(chapters.Chapters)
	}

	draft, err := editor.ValidateChapter(editor.ChapterDraft{
		Number:  number,
		Title:   b.Title,
		Part:    b.Part,
		Content: b.Content,
		Locked:  b.Locked,
		Price:   b.Price,
	}, chapters.Chapters)
	if err != nil {
		return nil, draftError(err)
	}

	return &struct{ Body ChapterDraftBody }{
		Body: ChapterDraftBody{Chapter: *draft, WordCount: editor.CountWords(draft.Content)},
	}, nil
}
