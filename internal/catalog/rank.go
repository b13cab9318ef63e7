package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/ch1kulya/mstories/internal/models"
)

type Metric string

const (
	MetricViews    Metric = "views"
	MetricRating   Metric = "rating"
	MetricComments Metric = "comments"
)

var Metrics = []Metric{MetricViews, MetricRating, MetricComments}

func (m Metric) Valid() bool {
	return slices.Contains(Metrics, m)
}

// Rank orders a copy of stories by metric, highest first. Unknown metrics
// fall back to views.
func Rank(stories []models.Story, metric Metric) []models.Story {
	ranked := slices.Clone(stories)
	if ranked == nil {
		return []models.Story{}
	}

	slices.SortStableFunc(ranked, func(a, b models.Story) int {
		switch metric {
		case MetricRating:
			return cmp.Compare(b.Rating, a.Rating)
		case MetricComments:
			return cmp.Compare(b.Comments, a.Comments)
		default:
			return cmp.Compare(b.Views, a.Views)
		}
	})
	return ranked
}

func Related(stories []models.Story, story models.Story, limit int) []models.Story {
	if limit <= 0 {
		return []models.Story{}
	}

	related := make([]models.Story, 0, limit)
	for _, s := range stories {
		if len(related) >= limit {
			break
		}
		if s.Genre == story.Genre && s.ID != story.ID {
			related = append(related, s)
		}
	}
	return related
}

func ByAuthor(stories []models.Story, author string) []models.Story {
	result := make([]models.Story, 0)
	for _, s := range stories {
		if s.Author == author {
			result = append(result, s)
		}
	}
	return result
}

func StatsFor(stories []models.Story, author string) models.AuthorStats {
	stats := models.AuthorStats{Name: author}

	var ratingSum float64
	for _, s := range ByAuthor(stories, author) {
		stats.StoryCount++
		stats.TotalWords += s.WordCount
		stats.TotalViews += s.Views
		stats.TotalChapters += s.ChapterCount
		ratingSum += s.Rating
	}

	if stats.StoryCount > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(stats.StoryCount)*10) / 10
	}
	return stats
}

func Genres(stories []models.Story) []string {
	return distinct(stories, func(s models.Story) string { return s.Genre })
}

func Authors(stories []models.Story) []string {
	return distinct(stories, func(s models.Story) string { return s.Author })
}

func distinct(stories []models.Story, field func(models.Story) string) []string {
	seen := make(map[string]struct{}, len(stories))
	values := make([]string, 0, len(stories))
	for _, s := range stories {
		v := field(s)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
