package api

import (
	"context"
	"errors"
	"strings"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

type Handlers struct {
	store   *data.Store
	backend string
	ping    func(context.Context) error
}

// NewHandlers serves store. ping may be nil when there is no database.
func NewHandlers(store *data.Store, backend string, ping func(context.Context) error) *Handlers {
	return &Handlers{store: store, backend: backend, ping: ping}
}

type ListStoriesInput struct {
	Genre  string `query:"genre" doc:"Comma-separated genres, matched exactly"`
	Status string `query:"status" doc:"Comma-separated statuses: ongoing, completed, hiatus"`
	Length string `query:"length" doc:"Comma-separated word-count buckets: <50k, 50k-100k, 100k-200k, 200k+"`
	Query  string `query:"q" maxLength:"100" doc:"Substring of title, author or tag"`
	Sort   string `query:"sort" doc:"newest, hottest, top_rated, most_words, fresh, discussed or shuffle"`
}

func (in *ListStoriesInput) Spec() (catalog.FilterSpec, error) {
	sort, ok := catalog.ParseSortKey(in.Sort)
	if !ok {
		return catalog.FilterSpec{}, huma.Error422UnprocessableEntity("Unknown sort key", &huma.ErrorDetail{
			Location: "query.sort",
			Value:    in.Sort,
		})
	}
	return catalog.FilterSpec{
		Genres:   splitList(in.Genre),
		Statuses: splitList(in.Status),
		Buckets:  splitList(in.Length),
		Query:    in.Query,
		Sort:     sort,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type IDInput struct {
	ID string `path:"id"`
}

type ChapterInput struct {
	ID     string `path:"id"`
	Number int    `path:"number" minimum:"1"`
}

type RelatedInput struct {
	ID    string `path:"id"`
	Limit int    `query:"limit" default:"3" minimum:"1" maximum:"12"`
}

type RankingInput struct {
	Metric string `path:"metric" enum:"views,rating,comments"`
	Limit  int    `query:"limit" default:"10" minimum:"1" maximum:"100"`
}

type AuthorInput struct {
	Name string `path:"name"`
}

type APIStatus struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
}

type RankingBody struct {
	Metric  string         `json:"metric"`
	Stories []models.Story `json:"stories"`
}

// storeError maps data errors onto HTTP problems.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, data.ErrNotFound):
		return huma.Error404NotFound(notFound)
	case errors.Is(err, data.ErrInvalidComment):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, data.ErrCommentCooldown):
		return huma.Error429TooManyRequests("Please wait before commenting again")
	default:
		logger.Error("API: %v", err)
		return huma.Error500InternalServerError("Database error")
	}
}

func (h *Handlers) Status(ctx context.Context, input *struct{}) (*struct{ Body APIStatus }, error) {
	dbStatus := "not configured"
	if h.ping != nil {
		dbStatus = "connected"
		if err := h.ping(ctx); err != nil {
			dbStatus = "disconnected"
		}
	}

	return &struct{ Body APIStatus }{
		Body: APIStatus{Status: "ok", Backend: h.backend, Database: dbStatus},
	}, nil
}

func (h *Handlers) ListStories(ctx context.Context, input *ListStoriesInput) (*struct{ Body models.StoriesList }, error) {
	spec, err := input.Spec()
	if err != nil {
		return nil, err
	}

	stories, err := h.store.Stories(ctx)
	if err != nil {
		return nil, storeError(err, "")
	}

	result := catalog.Apply(stories, spec)
	return &struct{ Body models.StoriesList }{
		Body: models.StoriesList{Stories: result, Count: len(result)},
	}, nil
}

func (h *Handlers) GetStory(ctx context.Context, input *IDInput) (*struct{ Body *models.Story }, error) {
	story, err := h.store.Story(ctx, input.ID)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	return &struct{ Body *models.Story }{Body: story}, nil
}

func (h *Handlers) GetChapters(ctx context.Context, input *IDInput) (*struct{ Body *models.ChaptersList }, error) {
	chapters, err := h.store.Chapters(ctx, input.ID)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	return &struct{ Body *models.ChaptersList }{Body: chapters}, nil
}

func (h *Handlers) GetChapter(ctx context.Context, input *ChapterInput) (*struct{ Body *models.Chapter }, error) {
	chapter, err := h.store.Chapter(ctx, input.ID, input.Number)
	if err != nil {
		return nil, storeError(err, "Chapter not found")
	}
	return &struct{ Body *models.Chapter }{Body: chapter}, nil
}

func (h *Handlers) GetRelated(ctx context.Context, input *RelatedInput) (*struct{ Body models.StoriesList }, error) {
	related, err := h.store.Related(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, storeError(err, "Story not found")
	}
	return &struct{ Body models.StoriesList }{
		Body: models.StoriesList{Stories: related, Count: len(related)},
	}, nil
}

func (h *Handlers) GetRanking(ctx context.Context, input *RankingInput) (*struct{ Body RankingBody }, error) {
	stories, err := h.store.Stories(ctx)
	if err != nil {
		return nil, storeError(err, "")
	}

	ranked := catalog.Rank(stories, catalog.Metric(input.Metric))
	if len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}
	return &struct{ Body RankingBody }{
		Body: RankingBody{Metric: input.Metric, Stories: ranked},
	}, nil
}

func (h *Handlers) GetAuthor(ctx context.Context, input *AuthorInput) (*struct{ Body *models.AuthorProfile }, error) {
	profile, err := h.store.Author(ctx, input.Name)
	if err != nil {
		return nil, storeError(err, "Author not found")
	}
	return &struct{ Body *models.AuthorProfile }{Body: profile}, nil
}

func (h *Handlers) GetSitemapData(ctx context.Context, input *struct{}) (*struct{ Body []models.SitemapItem }, error) {
	items, err := h.store.SitemapData(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch data")
	}
	return &struct{ Body []models.SitemapItem }{Body: items}, nil
}
