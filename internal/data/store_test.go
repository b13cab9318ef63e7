package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ch1kulya/mstories/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	seed, err := LoadSeed()
	require.NoError(t, err)
	return NewStore(NewMemory(seed))
}

type countingBackend struct {
	Backend
	listCalls int
}

func (b *countingBackend) ListStories(ctx context.Context) ([]models.Story, error) {
	b.listCalls++
	return b.Backend.ListStories(ctx)
}

func TestStore_Stories(t *testing.T) {
	store := newTestStore(t)

	stories, err := store.Stories(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 7)
	assert.Equal(t, "Ascension of the Eternal Emperor", stories[0].Title)
	assert.Equal(t, 67800, stories[2].Views)
}

func TestStore_StoriesAreCached(t *testing.T) {
	seed, err := LoadSeed()
	require.NoError(t, err)
	backend := &countingBackend{Backend: NewMemory(seed)}
	store := NewStore(backend)

	for range 3 {
		_, err := store.Stories(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, backend.listCalls)
}

func TestStore_StoriesReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Stories(ctx)
	require.NoError(t, err)
	first[0].Title = "changed"

	second, err := store.Stories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ascension of the Eternal Emperor", second[0].Title)
}

func TestStore_Story(t *testing.T) {
	store := newTestStore(t)

	story, err := store.Story(context.Background(), "6")
	require.NoError(t, err)
	assert.Equal(t, "Rebirth of the Demon God", story.Title)
	assert.Equal(t, []string{"Xianxia", "Dark", "Anti-hero"}, story.Tags)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), story.CreatedAt)

	_, err = store.Story(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Chapters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	list, err := store.Chapters(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, "1", list.StoryID)
	assert.Equal(t, "The Forgotten Seed", list.Chapters[0].Title)
	assert.Equal(t, 3, list.Chapters[2].ChapterNumber)

	empty, err := store.Chapters(ctx, "7")
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Chapters)

	_, err = store.Chapters(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Chapter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chapter, err := store.Chapter(ctx, "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Roots of Memory", chapter.Title)
	assert.Equal(t, 5800, chapter.WordCount)
	assert.Contains(t, chapter.Content, "Memory Bloom")

	for _, number := range []int{0, -1, 4} {
		_, err := store.Chapter(ctx, "1", number)
		assert.ErrorIs(t, err, ErrNotFound, "chapter %d", number)
	}
}

func TestStore_Related(t *testing.T) {
	store := newTestStore(t)

	related, err := store.Related(context.Background(), "1", 3)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "6", related[0].ID)
	assert.Equal(t, "7", related[1].ID)

	_, err = store.Related(context.Background(), "404", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Author(t *testing.T) {
	store := newTestStore(t)

	profile, err := store.Author(context.Background(), "Time Weaver")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Stats.StoryCount)
	assert.Equal(t, 89000, profile.Stats.TotalWords)
	assert.Equal(t, 4.9, profile.Stats.AverageRating)
	require.Len(t, profile.Stories, 1)

	_, err = store.Author(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SitemapData(t *testing.T) {
	store := newTestStore(t)

	items, err := store.SitemapData(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 7)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), items[0].UpdatedAt)
}

type failingBackend struct {
	Backend
}

func (failingBackend) ListStories(context.Context) ([]models.Story, error) {
	return nil, errors.New("connection refused")
}

func TestStore_BackendErrorsPropagate(t *testing.T) {
	store := NewStore(failingBackend{})

	_, err := store.Stories(context.Background())
	assert.EqualError(t, err, "connection refused")

	_, err = store.SitemapData(context.Background())
	assert.Error(t, err)
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		store.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
