package catalog

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/ch1kulya/mstories/internal/models"
)

type Bucket string

const (
	BucketUnder50k    Bucket = "<50k"
	Bucket50kTo100k   Bucket = "50k-100k"
	Bucket100kTo200k  Bucket = "100k-200k"
	Bucket200kAndOver Bucket = "200k+"
)

var Buckets = []Bucket{BucketUnder50k, Bucket50kTo100k, Bucket100kTo200k, Bucket200kAndOver}

type SortKey string

const (
	SortNone      SortKey = ""
	SortNewest    SortKey = "newest"
	SortHottest   SortKey = "hottest"
	SortTopRated  SortKey = "top_rated"
	SortMostWords SortKey = "most_words"
	SortFresh     SortKey = "fresh"
	SortDiscussed SortKey = "discussed"
	SortShuffle   SortKey = "shuffle"
)

var SortKeys = []SortKey{SortNewest, SortHottest, SortTopRated, SortMostWords, SortFresh, SortDiscussed, SortShuffle}

var Statuses = []string{"ongoing", "completed", "hiatus"}

type FilterSpec struct {
	Genres   []string
	Statuses []string
	Buckets  []string
	Query    string
	Sort     SortKey
}

// IsEmpty reports whether the filter removes nothing.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Genres) == 0 && len(f.Statuses) == 0 && len(f.Buckets) == 0 && strings.TrimSpace(f.Query) == ""
}

// BucketFor places a word count in exactly one bucket. Lower bounds are
// inclusive: 50000 words is 50k-100k.
func BucketFor(words int) Bucket {
	switch {
	case words < 50_000:
		return BucketUnder50k
	case words < 100_000:
		return Bucket50kTo100k
	case words < 200_000:
		return Bucket100kTo200k
	default:
		return Bucket200kAndOver
	}
}

// ParseBucket accepts sidebar labels such as "< 50k" or "50k - 100k".
func ParseBucket(label string) (Bucket, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(label, " ", ""))
	for _, b := range Buckets {
		if string(b) == normalized {
			return b, true
		}
	}
	return "", false
}

func ParseSortKey(s string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == SortNone {
		return SortNone, true
	}
	if slices.Contains(SortKeys, key) {
		return key, true
	}
	return SortNone, false
}

func Apply(stories []models.Story, spec FilterSpec) []models.Story {
	query := strings.ToLower(strings.TrimSpace(spec.Query))

	buckets := make([]Bucket, 0, len(spec.Buckets))
	for _, label := range spec.Buckets {
		if b, ok := ParseBucket(label); ok {
			buckets = append(buckets, b)
		}
	}
	bucketsSelected := len(spec.Buckets) > 0

	result := make([]models.Story, 0, len(stories))
	for _, s := range stories {
		if len(spec.Genres) > 0 && !slices.Contains(spec.Genres, s.Genre) {
			continue
		}
		if len(spec.Statuses) > 0 && !matchesStatus(spec.Statuses, s.Status) {
			continue
		}
		if bucketsSelected && !slices.Contains(buckets, BucketFor(s.WordCount)) {
			continue
		}
		if query != "" && !matchesQuery(s, query) {
			continue
		}
		result = append(result, s)
	}

	if spec.Sort == SortShuffle {
		return Shuffle(result)
	}
	sortStories(result, spec.Sort)
	return result
}

func matchesStatus(selected []string, status string) bool {
	for _, st := range selected {
		if strings.EqualFold(st, status) {
			return true
		}
	}
	return false
}

func matchesQuery(s models.Story, query string) bool {
	if strings.Contains(strings.ToLower(s.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Author), query) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortStories(stories []models.Story, key SortKey) {
	var compare func(a, b models.Story) int
	switch key {
	case SortNewest:
		compare = func(a, b models.Story) int { return b.UpdatedAt.Compare(a.UpdatedAt) }
	case SortFresh:
		compare = func(a, b models.Story) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortHottest:
		compare = func(a, b models.Story) int { return cmp.Compare(b.Views, a.Views) }
	case SortTopRated:
		compare = func(a, b models.Story) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortMostWords:
		compare = func(a, b models.Story) int { return cmp.Compare(b.WordCount, a.WordCount) }
	case SortDiscussed:
		compare = func(a, b models.Story) int { return cmp.Compare(b.Comments, a.Comments) }
	default:
		return
	}
	slices.SortStableFunc(stories, compare)
}

// Shuffle returns the stories in a random order, reseeded on every call.
// The order is not reproducible and must never be compared across calls.
func Shuffle(stories []models.Story) []models.Story {
	seed := uint64(time.Now().UnixNano())
	return ShuffleWith(stories, rand.New(rand.NewPCG(seed, rand.Uint64())))
}

func ShuffleWith(stories []models.Story, rng *rand.Rand) []models.Story {
	shuffled := slices.Clone(stories)
	if shuffled == nil {
		shuffled = []models.Story{}
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
