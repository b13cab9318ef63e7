package models

import "time"

type Story struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Author       string    `json:"author" yaml:"author"`
	Description  string    `json:"description" yaml:"description"`
	Genre        string    `json:"genre" yaml:"genre"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Status       string    `json:"status" yaml:"status"`
	WordCount    int       `json:"word_count" yaml:"word_count"`
	ChapterCount int       `json:"chapter_count" yaml:"chapter_count"`
	Views        int       `json:"views" yaml:"views"`
	Comments     int       `json:"comments" yaml:"comments"`
	Rating       float64   `json:"rating" yaml:"rating"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	CoverColor   string    `json:"cover_color" yaml:"cover_color"`
}

type StoriesList struct {
	Stories []Story `json:"stories"`
	Count   int     `json:"count"`
}

type ChapterSummary struct {
	ID            string `json:"id"`
	StoryID       string `json:"story_id"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	WordCount     int    `json:"word_count"`
}

type Chapter struct {
	ID            string `json:"id" yaml:"id"`
	StoryID       string `json:"story_id" yaml:"story_id"`
	ChapterNumber int    `json:"chapter_number" yaml:"chapter_number"`
	Title         string `json:"title" yaml:"title"`
	Content       string `json:"content" yaml:"content"`
	WordCount     int    `json:"word_count" yaml:"word_count"`
}

func (c Chapter) Summary() ChapterSummary {
	return ChapterSummary{
		ID:            c.ID,
		StoryID:       c.StoryID,
		ChapterNumber: c.ChapterNumber,
		Title:         c.Title,
		WordCount:     c.WordCount,
	}
}

type ChaptersList struct {
	Chapters []ChapterSummary `json:"chapters"`
	StoryID  string           `json:"story_id"`
	Count    int              `json:"count"`
}

type Comment struct {
	ID          string    `json:"id"`
	StoryID     string    `json:"story_id"`
	Author      string    `json:"author"`
	ContentHTML string    `json:"content_html"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCommentInput struct {
	StoryID string `json:"story_id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

type AuthorStats struct {
	Name          string  `json:"name"`
	StoryCount    int     `json:"story_count"`
	TotalWords    int     `json:"total_words"`
	TotalViews    int     `json:"total_views"`
	TotalChapters int     `json:"total_chapters"`
	AverageRating float64 `json:"average_rating"`
}

type AuthorProfile struct {
	Stats   AuthorStats `json:"stats"`
	Stories []Story     `json:"stories"`
}

type SitemapItem struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}
