package catalog

import (
	"time"

	"github.com/ch1kulya/mstories/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureStories() []models.Story {
	return []models.Story{
		{ID: "1", Title: "Ascension of the Eternal Emperor", Author: "Celestial Ink", Genre: "Fantasy", Tags: []string{"Xianxia", "Action", "Adventure"}, Status: "ongoing", WordCount: 145200, ChapterCount: 24, Views: 125000, Comments: 450, Rating: 4.8, CreatedAt: date("2025-11-15"), UpdatedAt: date("2026-02-14")},
		{ID: "2", Title: "The Villainess Reverses the Hourglass", Author: "Time Weaver", Genre: "Romance", Tags: []string{"Romance", "Reincarnation", "Drama"}, Status: "completed", WordCount: 89000, ChapterCount: 18, Views: 89000, Comments: 120, Rating: 4.9, CreatedAt: date("2025-08-20"), UpdatedAt: date("2026-01-05")},
		{ID: "3", Title: "Level Up: Apocalyptic System", Author: "System Admin", Genre: "Sci-Fi", Tags: []string{"System", "Apocalypse", "Action"}, Status: "ongoing", WordCount: 67800, ChapterCount: 12, Views: 67800, Comments: 210, Rating: 4.6, CreatedAt: date("2026-01-10"), UpdatedAt: date("2026-02-12")},
		{ID: "4", Title: "The Alchemist's Silent Love", Author: "Potion Master", Genre: "Romance", Tags: []string{"Romance", "Fantasy", "Slice of Life"}, Status: "hiatus", WordCount: 45000, ChapterCount: 9, Views: 45000, Comments: 85, Rating: 4.7, CreatedAt: date("2025-06-01"), UpdatedAt: date("2025-12-20")},
		{ID: "5", Title: "Cyber-Mage: Neon Genesis", Author: "Techno Wizard", Genre: "Sci-Fi", Tags: []string{"Sci-fi", "Cyberpunk", "Magic"}, Status: "ongoing", WordCount: 32000, ChapterCount: 7, Views: 32000, Comments: 60, Rating: 4.5, CreatedAt: date("2026-02-01"), UpdatedAt: date("2026-02-15")},
		{ID: "6", Title: "Rebirth of the Demon God", Author: "Dark Soul", Genre: "Fantasy", Tags: []string{"Xianxia", "Dark", "Anti-hero"}, Status: "completed", WordCount: 150000, ChapterCount: 30, Views: 150000, Comments: 600, Rating: 4.8, CreatedAt: date("2025-04-10"), UpdatedAt: date("2025-11-30")},
		{ID: "7", Title: "The Sovereign Lord of the Abyss", Author: "Void Walker", Genre: "Fantasy", Tags: []string{"Fantasy", "Dark", "Action"}, Status: "ongoing", WordCount: 98000, ChapterCount: 20, Views: 98000, Comments: 350, Rating: 4.9, CreatedAt: date("2025-09-01"), UpdatedAt: date("2026-02-10")},
	}
}

func ids(stories []models.Story) []string {
	out := make([]string, len(stories))
	for i, s := range stories {
		out[i] = s.ID
	}
	return out
}
