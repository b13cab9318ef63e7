package data

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/stories_list.sql
var queryStoriesList string

//go:embed sql/stories_get_one.sql
var queryStoriesGetOne string

//go:embed sql/stories_insert.sql
var queryStoriesInsert string

//go:embed sql/chapters_get_list.sql
var queryChaptersGetList string

//go:embed sql/chapters_get_one.sql
var queryChaptersGetOne string

//go:embed sql/chapters_insert.sql
var queryChaptersInsert string

//go:embed sql/comments_get_list.sql
var queryCommentsGetList string

//go:embed sql/comments_create.sql
var queryCommentsCreate string

//go:embed sql/comments_adjust_likes.sql
var queryCommentsAdjustLikes string

// querier is the part of *pgxpool.Pool the backend reads and writes with.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres is a Backend over the schema in migrations/.
type Postgres struct {
	db querier
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func scanStory(row pgx.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(
		&s.ID, &s.Title, &s.Author, &s.Description, &s.Genre, &s.Tags,
		&s.Status, &s.WordCount, &s.ChapterCount, &s.Views, &s.Comments,
		&s.Rating, &s.CreatedAt, &s.UpdatedAt, &s.CoverColor,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *Postgres) ListStories(ctx context.Context) ([]models.Story, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := p.db.Query(dbCtx, queryStoriesList)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories := make([]models.Story, 0)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			logger.Warn("ListStories: Row scan error: %v", err)
			continue
		}
		stories = append(stories, *s)
	}
	return stories, rows.Err()
}

func (p *Postgres) GetStory(ctx context.Context, id string) (*models.Story, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanStory(p.db.QueryRow(dbCtx, queryStoriesGetOne, id))
}

func (p *Postgres) ListChapters(ctx context.Context, storyID string) ([]models.ChapterSummary, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.Query(dbCtx, queryChaptersGetList, storyID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]models.ChapterSummary, 0)
	for rows.Next() {
		var c models.ChapterSummary
		if err := rows.Scan(&c.ID, &c.StoryID, &c.ChapterNumber, &c.Title, &c.WordCount); err != nil {
			return nil, fmt.Errorf("scan chapter of %s: %w", storyID, err)
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

func (p *Postgres) GetChapter(ctx context.Context, storyID string, number int) (*models.Chapter, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Chapter
	err := p.db.QueryRow(dbCtx, queryChaptersGetOne, storyID, number).Scan(
		&c.ID, &c.StoryID, &c.ChapterNumber, &c.Title, &c.Content, &c.WordCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) ListComments(ctx context.Context, storyID string) ([]models.Comment, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.Query(dbCtx, queryCommentsGetList, storyID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.StoryID, &c.Author, &c.ContentHTML, &c.Likes, &c.CreatedAt); err != nil {
			logger.Warn("Comment row scan error: %v", err)
			continue
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (p *Postgres) InsertComment(ctx context.Context, c models.Comment) error {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := p.db.Exec(dbCtx, queryCommentsCreate, c.ID, c.StoryID, c.Author, c.ContentHTML, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) AdjustLikes(ctx context.Context, commentID string, delta int) (*models.Comment, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Comment
	err := p.db.QueryRow(dbCtx, queryCommentsAdjustLikes, commentID, delta).Scan(
		&c.ID, &c.StoryID, &c.Author, &c.ContentHTML, &c.Likes, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SeedPostgres copies seed into the database in one transaction. Rows that
// already exist are left untouched.
func SeedPostgres(ctx context.Context, db *pgxpool.Pool, seed *Seed) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range seed.Stories {
		batch.Queue(queryStoriesInsert,
			s.ID, s.Title, s.Author, s.Description, s.Genre, s.Tags, s.Status,
			s.WordCount, s.ChapterCount, s.Views, s.Comments, s.Rating,
			s.CreatedAt, s.UpdatedAt, s.CoverColor,
		)
	}
	for _, c := range seed.Chapters {
		batch.Queue(queryChaptersInsert, c.ID, c.StoryID, c.ChapterNumber, c.Title, c.Content, c.WordCount)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("Seeded %d stories and %d chapters", len(seed.Stories), len(seed.Chapters))
	return nil
}
