package data

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/internal/cache"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const (
	commentCooldown  = 30 * time.Second
	maxCommentLength = 1000
	maxAuthorLength  = 50
	anonymousAuthor  = "Anonymous"
)

var markdownPolicy = newMarkdownPolicy()

func newMarkdownPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowRelativeURLs(false)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowElements("p", "br", "strong", "b", "em", "i", "code", "pre", "blockquote")
	p.AllowElements("ul", "ol", "li")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	return p
}

func renderMarkdown(content string) string {
	unsafe := blackfriday.Run([]byte(content),
		blackfriday.WithExtensions(blackfriday.CommonExtensions&^blackfriday.Tables&^blackfriday.FencedCode),
	)
	safe := markdownPolicy.SanitizeBytes(unsafe)
	return strings.TrimSpace(string(safe))
}

// cooldown remembers when each client last commented.
type cooldown struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func newCooldown(window time.Duration) *cooldown {
	return &cooldown{window: window, last: make(map[string]time.Time)}
}

// reserve claims the client's slot at now if its window has passed. The
// returned undo puts the previous entry back when the comment is not stored.
func (c *cooldown) reserve(key string, now time.Time) (undo func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, seen := c.last[key]
	if seen && now.Sub(last) < c.window {
		return nil, false
	}
	c.last[key] = now

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.last[key] != now {
			return
		}
		if seen {
			c.last[key] = last
		} else {
			delete(c.last, key)
		}
	}, true
}

func (c *cooldown) sweep(now time.Time, maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, last := range c.last {
		if now.Sub(last) > maxAge {
			delete(c.last, key)
			removed++
		}
	}
	return removed
}

// Comments lists a story's comments, newest first.
func (s *Store) Comments(ctx context.Context, storyID string) ([]models.Comment, error) {
	if _, err := s.Story(ctx, storyID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("comments:%s", storyID)
	comments, err := cache.Fetch(s.cache, key, time.Minute, func() ([]models.Comment, error) {
		return s.backend.ListComments(ctx, storyID)
	})
	if err != nil {
		logger.Error("Comments: story %s: %v", storyID, err)
		return nil, err
	}
	return slices.Clone(comments), nil
}

// AddComment stores a Markdown comment for clientKey, at most one per
// cooldown window.
func (s *Store) AddComment(ctx context.Context, clientKey string, input models.CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if n := utf8.RuneCountInString(content); n == 0 || n > maxCommentLength {
		return nil, fmt.Errorf("%w: content must be 1-%d characters", ErrInvalidComment, maxCommentLength)
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = anonymousAuthor
	}
	if utf8.RuneCountInString(author) > maxAuthorLength {
		return nil, fmt.Errorf("%w: author must be at most %d characters", ErrInvalidComment, maxAuthorLength)
	}

	if _, err := s.Story(ctx, input.StoryID); err != nil {
		return nil, err
	}

	now := s.now()
	undo, ok := s.cooldown.reserve(clientKey, now)
	if !ok {
		logger.Warn("Comment cooldown hit for %s", clientKey)
		return nil, ErrCommentCooldown
	}

	comment := models.Comment{
		ID:          uuid.NewString(),
		StoryID:     input.StoryID,
		Author:      author,
		ContentHTML: renderMarkdown(content),
		CreatedAt:   now.UTC(),
	}
	if err := s.backend.InsertComment(ctx, comment); err != nil {
		undo()
		logger.Error("Failed to create comment: %v", err)
		return nil, err
	}

	s.invalidateStory(input.StoryID)

	logger.Info("Comment created: %s on story %s", comment.ID, comment.StoryID)
	return &comment, nil
}

// LikeComment adds or withdraws one like. Counts never drop below zero.
func (s *Store) LikeComment(ctx context.Context, commentID string, liked bool) (*models.Comment, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return nil, ErrNotFound
	}

	delta := 1
	if !liked {
		delta = -1
	}

	comment, err := s.backend.AdjustLikes(ctx, commentID, delta)
	if err != nil {
		return nil, err
	}
	s.cache.Delete("comments:" + comment.StoryID)
	return comment, nil
}
