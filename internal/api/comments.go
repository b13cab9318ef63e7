package api

import (
	"context"
	"net"

	"github.com/ch1kulya/mstories/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

type ListCommentsInput struct {
	ID string `path:"id"`
}

type CommentsBody struct {
	StoryID  string           `json:"story_id"`
	Comments []models.Comment `json:"comments"`
	Count    int              `json:"count"`
}

type CreateCommentInput struct {
	ID   string `path:"id"`
	Body struct {
		Author  string `json:"author,omitempty" maxLength:"50" doc:"Shown as Anonymous when empty"`
		Content string `json:"content" minLength:"1" maxLength:"4000" doc:"Markdown, 1-1000 characters after trimming"`
	}

	clientIP string
}

// Resolve captures the caller's address for the comment cooldown.
func (in *CreateCommentInput) Resolve(ctx huma.Context) []error {
	in.clientIP = ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(in.clientIP); err == nil {
		in.clientIP = host
	}
	return nil
}

type LikeCommentInput struct {
	ID   string `path:"id"`
	Body struct {
		Liked bool `json:"liked" doc:"false withdraws a previous like"`
	}
}

func (h *Handlers) ListComments(ctx context.Context, input *ListCommentsInput) (*struct{ Body CommentsBody }, error) {
	comments, err := h.store.Comments(ctx, input.ID)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	return &struct{ Body CommentsBody }{
		Body: CommentsBody{StoryID: input.ID, Comments: comments, Count: len(comments)},
	}, nil
}

func (h *Handlers) CreateComment(ctx context.Context, input *CreateCommentInput) (*struct{ Body *models.Comment }, error) {
	comment, err := h.store.AddComment(ctx, input.clientIP, models.CreateCommentInput{
		StoryID: input.ID,
		Author:  input.Body.Author,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	return &struct{ Body *models.Comment }{Body: comment}, nil
}

func (h *Handlers) LikeComment(ctx context.Context, input *LikeCommentInput) (*struct{ Body *models.Comment }, error) {
	comment, err := h.store.LikeComment(ctx, input.ID, input.Body.Liked)
	if err != nil {
		return nil, storeError(err, "Comment not found")
	}
	return &struct{ Body *models.Comment }{Body: comment}, nil
}
