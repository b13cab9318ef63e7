package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/ch1kulya/mstories/internal/reader"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	seed, err := data.LoadSeed()
	require.NoError(t, err)

	_, api := humatest.New(t)
	Register(api, NewHandlers(data.NewStore(data.NewMemory(seed)), "memory", nil))
	return api
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func storyIDs(stories []models.Story) []string {
	ids := make([]string, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
	}
	return ids
}

func TestStatus(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)

	status := decode[APIStatus](t, resp.Body.Bytes())
	assert.Equal(t, APIStatus{Status: "ok", Backend: "memory", Database: "not configured"}, status)
}

func TestListStories(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "all in input order", query: "", want: []string{"1", "2", "3", "4", "5", "6", "7"}},
		{name: "genre", query: "?genre=Romance", want: []string{"2", "4"}},
		{name: "genres combine with OR", query: "?genre=Romance,Sci-Fi", want: []string{"2", "3", "4", "5"}},
		{name: "status is case-insensitive", query: "?status=Completed", want: []string{"2", "6"}},
		{name: "length bucket", query: "?length=100k-200k", want: []string{"1", "6"}},
		{name: "query matches tags", query: "?q=%20XIANXIA%20", want: []string{"1", "6"}},
		{name: "sorted by views", query: "?genre=Fantasy&sort=hottest", want: []string{"6", "1", "7"}},
		{name: "unknown bucket matches nothing", query: "?length=huge", want: []string{}},
	}

	api := newTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get("/stories" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			list := decode[models.StoriesList](t, resp.Body.Bytes())
			assert.Equal(t, tt.want, storyIDs(list.Stories))
			assert.Equal(t, len(tt.want), list.Count)
		})
	}
}

func TestListStories_Shuffle(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/stories?sort=shuffle")
	require.Equal(t, http.StatusOK, resp.Code)

	list := decode[models.StoriesList](t, resp.Body.Bytes())
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6", "7"}, storyIDs(list.Stories))
}

func TestListStories_UnknownSort(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/stories?sort=alphabetical")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetStory(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/stories/3")
	require.Equal(t, http.StatusOK, resp.Code)
	story := decode[models.Story](t, resp.Body.Bytes())
	assert.Equal(t, "Level Up: Apocalyptic System", story.Title)

	assert.Equal(t, http.StatusNotFound, api.Get("/stories/99").Code)
}

func TestChapters(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/stories/1/chapters")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[models.ChaptersList](t, resp.Body.Bytes())
	assert.Equal(t, 3, list.Count)

	resp = api.Get("/stories/1/chapters/3")
	require.Equal(t, http.StatusOK, resp.Code)
	chapter := decode[models.Chapter](t, resp.Body.Bytes())
	assert.Equal(t, "The First Bloom", chapter.Title)

	assert.Equal(t, http.StatusNotFound, api.Get("/stories/1/chapters/9").Code)
	assert.Equal(t, http.StatusNotFound, api.Get("/stories/99/chapters").Code)
}

func TestRelated(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/stories/6/related?limit=1")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[models.StoriesList](t, resp.Body.Bytes())
	assert.Equal(t, []string{"1"}, storyIDs(list.Stories))
}

func TestRanking(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/rankings/comments?limit=3")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[RankingBody](t, resp.Body.Bytes())
	assert.Equal(t, "comments", body.Metric)
	assert.Equal(t, []string{"6", "1", "7"}, storyIDs(body.Stories))

	assert.Equal(t, http.StatusUnprocessableEntity, api.Get("/rankings/likes").Code)
}

func TestAuthor(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/authors/Dark%20Soul")
	require.Equal(t, http.StatusOK, resp.Code)
	profile := decode[models.AuthorProfile](t, resp.Body.Bytes())
	assert.Equal(t, 150000, profile.Stats.TotalWords)

	assert.Equal(t, http.StatusNotFound, api.Get("/authors/Nobody").Code)
}

func TestComments(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/stories/2/comments", map[string]any{"author": "Aria", "content": "She should **burn** the list."})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[models.Comment](t, resp.Body.Bytes())
	assert.Contains(t, created.ContentHTML, "<strong>burn</strong>")

	resp = api.Post("/stories/2/comments", map[string]any{"content": "again"})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	resp = api.Get("/stories/2/comments")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[CommentsBody](t, resp.Body.Bytes())
	assert.Equal(t, 1, body.Count)

	resp = api.Post("/comments/"+created.ID+"/like", map[string]any{"liked": true})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[models.Comment](t, resp.Body.Bytes()).Likes)

	assert.Equal(t, http.StatusNotFound, api.Post("/comments/nope/like", map[string]any{"liked": true}).Code)
}

func TestComments_Invalid(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnprocessableEntity, api.Post("/stories/2/comments", map[string]any{"content": "   "}).Code)
	assert.Equal(t, http.StatusNotFound, api.Post("/stories/99/comments", map[string]any{"content": "hi"}).Code)
}

func TestReaderEvents(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/reader/1/events", map[string]any{
		"chapter": 1,
		"events": []map[string]any{
			{"type": "font_increase"},
			{"type": "background", "value": "sepia"},
			{"type": "navigate", "value": "next"},
			{"type": "key", "key": map[string]any{"key": "b"}},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[ReaderEventsBody](t, resp.Body.Bytes())
	assert.Equal(t, 2, body.State.ChapterNumber)
	assert.Equal(t, 20, body.State.Preferences.FontSize)
	assert.Equal(t, reader.Palette{Background: "#f4ecd8", Text: "#5b4636"}, body.State.Palette)
	assert.True(t, body.State.Bookmarked)
	assert.True(t, body.State.HasNext)
	assert.Equal(t, "Roots of Memory", body.Chapter.Title)

	setCookies := resp.Header().Values("Set-Cookie")
	assert.Contains(t, setCookies, "mstories_font_size=20; Path=/read/1; HttpOnly; SameSite=Lax")
	for _, c := range setCookies {
		assert.NotContains(t, c, "Max-Age")
	}

	resp = api.Post("/reader/1/events", map[string]any{
		"state":  body.State,
		"events": []map[string]any{{"type": "navigate", "value": "next"}, {"type": "navigate", "value": "next"}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	next := decode[ReaderEventsBody](t, resp.Body.Bytes())
	assert.Equal(t, 3, next.State.ChapterNumber)
	assert.False(t, next.State.HasNext)
	assert.False(t, next.State.Bookmarked)
	assert.Equal(t, 20, next.State.Preferences.FontSize)
}

func TestReaderEvents_KeyBatch(t *testing.T) {
	api := newTestAPI(t)

	events := []map[string]any{{"type": "key", "key": map[string]any{"key": "Shift"}}}
	for range 6 {
		events = append(events, map[string]any{"type": "key", "key": map[string]any{"key": "+"}})
	}
	events = append(events,
		map[string]any{"type": "key", "key": map[string]any{"key": "-", "target": "INPUT"}},
		map[string]any{"type": "key", "key": map[string]any{"key": "-"}},
	)

	resp := api.Post("/reader/1/events", map[string]any{"chapter": 1, "events": events})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[ReaderEventsBody](t, resp.Body.Bytes())
	assert.Equal(t, 26, body.State.Preferences.FontSize)
	assert.Equal(t, 1, body.State.ChapterNumber)
}

func TestReaderEvents_Errors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		path string
		body map[string]any
		code int
	}{
		{name: "unknown story", path: "/reader/99/events", body: map[string]any{}, code: http.StatusNotFound},
		{name: "chapter out of range", path: "/reader/1/events", body: map[string]any{"chapter": 4}, code: http.StatusNotFound},
		{
			name: "invalid background",
			path: "/reader/1/events",
			body: map[string]any{"events": []map[string]any{{"type": "background", "value": "neon"}}},
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown event",
			path: "/reader/1/events",
			body: map[string]any{"events": []map[string]any{{"type": "teleport"}}},
			code: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Post(tt.path, tt.body)
			assert.Equal(t, tt.code, resp.Code, resp.Body.String())
		})
	}
}

func TestValidateStory(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/editor/stories/validate", map[string]any{
		"title": "New Story", "genre": "Horror", "status": "ongoing", "tags": "Ghosts, ghosts, Night",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"tags":["Ghosts","Night"]`)

	resp = api.Post("/editor/stories/validate", map[string]any{"title": "", "genre": "Western", "status": "ongoing"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "body.title")
	assert.Contains(t, resp.Body.String(), "body.genre")
}

func TestValidateChapter(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/editor/chapters/validate", map[string]any{
		"story_id": "1", "title": "Ashes", "content": "The garden burned at noon.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[ChapterDraftBody](t, resp.Body.Bytes())
	assert.Equal(t, 4, body.Chapter.Number)
	assert.Equal(t, 5, body.WordCount)

	resp = api.Post("/editor/chapters/validate", map[string]any{
		"story_id": "1", "chapter_number": 2, "title": "Dup", "content": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = api.Post("/editor/chapters/validate", map[string]any{"story_id": "99", "title": "t", "content": "c"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
