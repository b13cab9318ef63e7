package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Stories, 7)
	assert.Len(t, seed.Chapters, 5)
	assert.Equal(t, "Level Up: Apocalyptic System", seed.Stories[2].Title)
	assert.Equal(t, 4.6, seed.Stories[2].Rating)
	assert.Equal(t, "hsl(160 30% 90%)", seed.Stories[2].CoverColor)
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "malformed",
			raw:  "stories: [",
			want: "parse seed",
		},
		{
			name: "missing id",
			raw:  "stories:\n  - title: Untitled\n",
			want: "has no id",
		},
		{
			name: "duplicate id",
			raw:  "stories:\n  - id: \"1\"\n  - id: \"1\"\n",
			want: "duplicate story id 1",
		},
		{
			name: "orphan chapter",
			raw:  "stories:\n  - id: \"1\"\nchapters:\n  - id: x\n    story_id: \"2\"\n",
			want: "unknown story 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMemory_ChaptersSortedByNumber(t *testing.T) {
	seed, err := ParseSeed([]byte(`
stories:
  - id: "1"
chapters:
  - {id: c, story_id: "1", chapter_number: 3, title: Third}
  - {id: a, story_id: "1", chapter_number: 1, title: First}
  - {id: b, story_id: "1", chapter_number: 2, title: Second}
`))
	require.NoError(t, err)

	chapters, err := NewMemory(seed).ListChapters(t.Context(), "1")
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, "First", chapters[0].Title)
	assert.Equal(t, "Third", chapters[2].Title)
}
