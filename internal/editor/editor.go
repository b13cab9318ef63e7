package editor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/ch1kulya/mstories/internal/models"
	"github.com/go-playground/validator/v10"
)

const MaxTags = 10

var Genres = []string{"Fantasy", "Romance", "Sci-Fi", "Horror", "Mystery", "Slice of Life"}

var ErrInvalidDraft = errors.New("invalid draft")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return slices.Contains(Genres, fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("editor: register genre validation: %v", err))
	}
	return v
}

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidDraft, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDraft
}

type StoryDraft struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Genre       string   `json:"genre" validate:"required,genre"`
	Status      string   `json:"status" validate:"required,oneof=ongoing completed hiatus"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=30"`
}

type ChapterDraft struct {
	Number  int    `json:"chapter_number" validate:"min=1"`
	Title   string `json:"title" validate:"required,max=200"`
	Part    string `json:"part" validate:"max=100"`
	Content string `json:"content" validate:"required"`
	Locked  bool   `json:"locked"`
	Price   int    `json:"price" validate:"min=0"`
}

// ValidateStory trims the draft and checks it. rawTags is the comma list
// typed by the author.
func ValidateStory(title, description, genre, status, rawTags string) (*StoryDraft, error) {
	d := &StoryDraft{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Genre:       strings.TrimSpace(genre),
		Status:      strings.ToLower(strings.TrimSpace(status)),
		Tags:        ParseTags(rawTags),
	}
	if err := check(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ValidateChapter checks a chapter draft against the chapters already
// published for the story.
func ValidateChapter(d ChapterDraft, existing []models.ChapterSummary) (*ChapterDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Part = strings.TrimSpace(d.Part)
	d.Content = strings.TrimSpace(d.Content)
	if !d.Locked {
		d.Price = 0
	}

	err := check(&d)
	var verr *ValidationError
	if err != nil && !errors.As(err, &verr) {
		return nil, err
	}

	if slices.ContainsFunc(existing, func(c models.ChapterSummary) bool { return c.ChapterNumber == d.Number }) {
		if verr == nil {
			verr = &ValidationError{}
		}
		verr.Fields = append(verr.Fields, FieldError{
			Field:   "chapter_number",
			Rule:    "unique",
			Message: fmt.Sprintf("chapter %d already exists", d.Number),
		})
	}
	if verr != nil {
		return nil, verr
	}
	return &d, nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldName(fe),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "genre":
		return "must be one of " + strings.Join(Genres, ", ")
	default:
		return "is invalid"
	}
}

// ParseTags splits a comma list, dropping blanks and case-insensitive
// duplicates.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if slices.ContainsFunc(tags, func(seen string) bool { return strings.EqualFold(seen, t) }) {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

func NextChapterNumber(existing []models.ChapterSummary) int {
	next := 1
	for _, c := range existing {
		next = max(next, c.ChapterNumber+1)
	}
	return next
}

func CountWords(s string) int {
	return len(strings.Fields(s))
}
