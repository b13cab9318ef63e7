package data

import (
	"cmp"
	"context"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/ch1kulya/mstories/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

type Seed struct {
	Stories  []models.Story   `yaml:"stories"`
	Chapters []models.Chapter `yaml:"chapters"`
}

// LoadSeed decodes the bundled catalog.
func LoadSeed() (*Seed, error) {
	return ParseSeed(seedCatalog)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	known := make(map[string]bool, len(seed.Stories))
	for _, s := range seed.Stories {
		if s.ID == "" {
			return nil, fmt.Errorf("parse seed: story %q has no id", s.Title)
		}
		if known[s.ID] {
			return nil, fmt.Errorf("parse seed: duplicate story id %s", s.ID)
		}
		known[s.ID] = true
	}
	for _, c := range seed.Chapters {
		if !known[c.StoryID] {
			return nil, fmt.Errorf("parse seed: chapter %s references unknown story %s", c.ID, c.StoryID)
		}
	}
	return &seed, nil
}

// Memory is a Backend holding the whole catalog in process memory.
type Memory struct {
	mu       sync.RWMutex
	stories  []models.Story
	chapters map[string][]models.Chapter
	comments map[string][]models.Comment
}

func NewMemory(seed *Seed) *Memory {
	m := &Memory{
		stories:  slices.Clone(seed.Stories),
		chapters: make(map[string][]models.Chapter),
		comments: make(map[string][]models.Comment),
	}
	for _, c := range seed.Chapters {
		m.chapters[c.StoryID] = append(m.chapters[c.StoryID], c)
	}
	for id := range m.chapters {
		slices.SortFunc(m.chapters[id], func(a, b models.Chapter) int {
			return cmp.Compare(a.ChapterNumber, b.ChapterNumber)
		})
	}
	return m
}

func (m *Memory) ListStories(_ context.Context) ([]models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.stories), nil
}

func (m *Memory) GetStory(_ context.Context, id string) (*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.storyIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	story := m.stories[i]
	return &story, nil
}

func (m *Memory) storyIndex(id string) int {
	return slices.IndexFunc(m.stories, func(s models.Story) bool { return s.ID == id })
}

func (m *Memory) ListChapters(_ context.Context, storyID string) ([]models.ChapterSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]models.ChapterSummary, 0, len(m.chapters[storyID]))
	for _, c := range m.chapters[storyID] {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}

func (m *Memory) GetChapter(_ context.Context, storyID string, number int) (*models.Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.chapters[storyID] {
		if c.ChapterNumber == number {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListComments(_ context.Context, storyID string) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := slices.Clone(m.comments[storyID])
	slices.SortStableFunc(comments, func(a, b models.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (m *Memory) InsertComment(_ context.Context, c models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.storyIndex(c.StoryID)
	if i < 0 {
		return ErrNotFound
	}
	m.comments[c.StoryID] = append(m.comments[c.StoryID], c)
	m.stories[i].Comments++
	return nil
}

func (m *Memory) AdjustLikes(_ context.Context, commentID string, delta int) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for storyID, comments := range m.comments {
		for i := range comments {
			if comments[i].ID != commentID {
				continue
			}
			comments[i].Likes = max(comments[i].Likes+delta, 0)
			c := m.comments[storyID][i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}
