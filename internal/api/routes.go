package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func Register(humaApi huma.API, h *Handlers) {
	huma.Register(humaApi, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "API Status",
	}, h.Status)

	huma.Register(humaApi, huma.Operation{
		OperationID: "list-stories",
		Method:      http.MethodGet,
		Path:        "/stories",
		Summary:     "Filter and sort the catalog",
	}, h.ListStories)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-sitemap",
		Method:      http.MethodGet,
		Path:        "/stories/sitemap-data",
		Summary:     "Get sitemap data",
	}, h.GetSitemapData)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-story",
		Method:      http.MethodGet,
		Path:        "/stories/{id}",
		Summary:     "Get story by ID",
	}, h.GetStory)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-chapters",
		Method:      http.MethodGet,
		Path:        "/stories/{id}/chapters",
		Summary:     "List chapters for story",
	}, h.GetChapters)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-chapter",
		Method:      http.MethodGet,
		Path:        "/stories/{id}/chapters/{number}",
		Summary:     "Get chapter by number",
	}, h.GetChapter)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-related",
		Method:      http.MethodGet,
		Path:        "/stories/{id}/related",
		Summary:     "Stories in the same genre",
	}, h.GetRelated)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-ranking",
		Method:      http.MethodGet,
		Path:        "/rankings/{metric}",
		Summary:     "Rank stories by views, rating or comments",
	}, h.GetRanking)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-author",
		Method:      http.MethodGet,
		Path:        "/authors/{name}",
		Summary:     "Author profile and totals",
	}, h.GetAuthor)

	huma.Register(humaApi, huma.Operation{
		OperationID: "get-comments",
		Method:      http.MethodGet,
		Path:        "/stories/{id}/comments",
		Summary:     "Get story comments",
	}, h.ListComments)

	huma.Register(humaApi, huma.Operation{
		OperationID:   "create-comment",
		Method:        http.MethodPost,
		Path:          "/stories/{id}/comments",
		Summary:       "Create comment",
		DefaultStatus: http.StatusCreated,
	}, h.CreateComment)

	huma.Register(humaApi, huma.Operation{
		OperationID: "like-comment",
		Method:      http.MethodPost,
		Path:        "/comments/{id}/like",
		Summary:     "Like or unlike a comment",
	}, h.LikeComment)

	huma.Register(humaApi, huma.Operation{
		OperationID: "reader-events",
		Method:      http.MethodPost,
		Path:        "/reader/{storyId}/events",
		Summary:     "Apply reader events to a session snapshot",
	}, h.ReaderEvents)

	huma.Register(humaApi, huma.Operation{
		OperationID: "validate-story",
		Method:      http.MethodPost,
		Path:        "/editor/stories/validate",
		Summary:     "Validate a story draft",
	}, h.ValidateStory)

	huma.Register(humaApi, huma.Operation{
		OperationID: "validate-chapter",
		Method:      http.MethodPost,
		Path:        "/editor/chapters/validate",
		Summary:     "Validate a chapter draft",
	}, h.ValidateChapter)
}
