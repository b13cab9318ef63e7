package data

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/internal/cache"
	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCommentCooldown = errors.New("comment cooldown active")
	ErrInvalidComment  = errors.New("invalid comment")
)

// Backend is the storage the Store reads through. Missing rows are reported
// as ErrNotFound.
type Backend interface {
	ListStories(ctx context.Context) ([]models.Story, error)
	GetStory(ctx context.Context, id string) (*models.Story, error)
	ListChapters(ctx context.Context, storyID string) ([]models.ChapterSummary, error)
	GetChapter(ctx context.Context, storyID string, number int) (*models.Chapter, error)
	ListComments(ctx context.Context, storyID string) ([]models.Comment, error)
	InsertComment(ctx context.Context, c models.Comment) error
	AdjustLikes(ctx context.Context, commentID string, delta int) (*models.Comment, error)
}

type Store struct {
	backend  Backend
	cache    *cache.Cache
	cooldown *cooldown
	now      func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend:  backend,
		cache:    cache.New(),
		cooldown: newCooldown(commentCooldown),
		now:      time.Now,
	}
}

// Run sweeps expired cache entries and stale cooldowns until ctx is done.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged := s.cache.Purge()
			swept := s.cooldown.sweep(s.now(), 5*time.Minute)
			if purged > 0 || swept > 0 {
				logger.Info("Store sweep: %d cache entries, %d cooldowns (%d entries cached)", purged, swept, s.cache.Len())
			}
		}
	}
}

func (s *Store) Stories(ctx context.Context) ([]models.Story, error) {
	stories, err := cache.Fetch(s.cache, "stories", 5*time.Minute, func() ([]models.Story, error) {
		return s.backend.ListStories(ctx)
	})
	if err != nil {
		logger.Error("Stories: %v", err)
		return nil, err
	}
	return slices.Clone(stories), nil
}

func (s *Store) Story(ctx context.Context, id string) (*models.Story, error) {
	key := fmt.Sprintf("story:%s", id)

	story, err := cache.Fetch(s.cache, key, 10*time.Minute, func() (*models.Story, error) {
		return s.backend.GetStory(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	clone := *story
	return &clone, nil
}

func (s *Store) Chapters(ctx context.Context, storyID string) (*models.ChaptersList, error) {
	if _, err := s.Story(ctx, storyID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("chapters:%s", storyID)
	return cache.Fetch(s.cache, key, 5*time.Minute, func() (*models.ChaptersList, error) {
		chapters, err := s.backend.ListChapters(ctx, storyID)
		if err != nil {
			logger.Error("Chapters: story %s: %v", storyID, err)
			return nil, err
		}
		return &models.ChaptersList{
			Chapters: chapters,
			StoryID:  storyID,
			Count:    len(chapters),
		}, nil
	})
}

func (s *Store) Chapter(ctx context.Context, storyID string, number int) (*models.Chapter, error) {
	if number < 1 {
		return nil, ErrNotFound
	}

	key := fmt.Sprintf("chapter:%s:%d", storyID, number)
	return cache.Fetch(s.cache, key, 30*time.Minute, func() (*models.Chapter, error) {
		return s.backend.GetChapter(ctx, storyID, number)
	})
}

// Related returns up to limit stories sharing the genre of storyID.
func (s *Store) Related(ctx context.Context, storyID string, limit int) ([]models.Story, error) {
	story, err := s.Story(ctx, storyID)
	if err != nil {
		return nil, err
	}
	stories, err := s.Stories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Related(stories, *story, limit), nil
}

func (s *Store) Author(ctx context.Context, name string) (*models.AuthorProfile, error) {
	stories, err := s.Stories(ctx)
	if err != nil {
		return nil, err
	}

	own := catalog.ByAuthor(stories, name)
	if len(own) == 0 {
		return nil, ErrNotFound
	}
	return &models.AuthorProfile{
		Stats:   catalog.StatsFor(stories, name),
		Stories: own,
	}, nil
}

func (s *Store) SitemapData(ctx context.Context) ([]models.SitemapItem, error) {
	stories, err := s.Stories(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.SitemapItem, 0, len(stories))
	for _, story := range stories {
		items = append(items, models.SitemapItem{ID: story.ID, UpdatedAt: story.UpdatedAt})
	}
	return items, nil
}

func (s *Store) invalidateStory(storyID string) {
	s.cache.Delete("stories")
	s.cache.Delete("story:" + storyID)
	s.cache.Delete("comments:" + storyID)
}
