package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"unicode/utf8"

	"github.com/ch1kulya/mstories/assets/templates"
	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/ch1kulya/mstories/internal/ratelimit"
	"github.com/ch1kulya/mstories/internal/web/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Story(w http.ResponseWriter, r *http.Request) {
	h.renderStory(w, r, chi.URLParam(r, "id"), http.StatusOK, "")
}

func (h *Handler) renderStory(w http.ResponseWriter, r *http.Request, id string, code int, commentError string) {
	ctx := r.Context()

	story, err := h.store.Story(ctx, id)
	if err != nil {
		h.renderStoreError(w, r, err, "Story")
		return
	}

	chapters, err := h.store.Chapters(ctx, id)
	if err != nil {
		h.renderStoreError(w, r, err, "Story")
		return
	}

	related, err := h.store.Related(ctx, id, relatedStories)
	if err != nil {
		related = nil
	}

	comments, err := h.store.Comments(ctx, id)
	if err != nil {
		comments = []models.Comment{}
	}

	desc := story.Description
	if utf8.RuneCountInString(desc) > 155 {
		desc = string([]rune(desc)[:155]) + "..."
	}

	path := views.StoryURL(id)
	props := views.StoryProps{
		BaseProps:    h.base(fmt.Sprintf("%s by %s - mstories", story.Title, story.Author), desc, path),
		Story:        *story,
		Chapters:     chapters.Chapters,
		Related:      related,
		Comments:     comments,
		Continue:     continueReading(r, *story, chapters),
		CommentError: commentError,
	}
	props.OGImage = h.domain + views.ResolveCover(id)

	schema, err := templates.RenderSchemaStory(templates.SchemaStoryData{
		Domain:      h.domain,
		Canonical:   props.Canonical,
		Description: desc,
		Story: templates.SchemaStory{
			ID:       story.ID,
			Title:    story.Title,
			Author:   story.Author,
			Genre:    story.Genre,
			Status:   story.Status,
			CoverURL: props.OGImage,
			Rating:   story.Rating,
			Chapters: chapters.Count,
		},
	})
	if err == nil {
		props.Schema = template.HTML(schema)
	}

	h.render(w, r, code, views.Story(props))
}

// PostComment handles the comment form on the story page.
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	_, err := h.store.AddComment(r.Context(), ratelimit.ClientIP(r), models.CreateCommentInput{
		StoryID: id,
		Author:  r.PostForm.Get("author"),
		Content: r.PostForm.Get("content"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, views.StoryURL(id)+"#comments", http.StatusSeeOther)
	case errors.Is(err, data.ErrCommentCooldown):
		h.renderStory(w, r, id, http.StatusTooManyRequests, "Please wait a little before posting again.")
	case errors.Is(err, data.ErrInvalidComment):
		h.renderStory(w, r, id, http.StatusUnprocessableEntity, "Comments must be between 1 and 1000 characters.")
	default:
		h.renderStoreError(w, r, err, "Story")
	}
}
