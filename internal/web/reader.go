package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ch1kulya/mstories/internal/reader"
	"github.com/ch1kulya/mstories/internal/web/views"
	"github.com/go-chi/chi/v5"
)

// Reading progress and catalog choices are remembered for a year; reader
// preferences are session cookies owned by the reader package.
const cookieMaxAge = 365 * 24 * 60 * 60

func setPreferenceCookies(w http.ResponseWriter, storyID string, prefs reader.Preferences) {
	for _, c := range reader.PreferenceCookies(storyID, prefs) {
		http.SetCookie(w, &c)
	}
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// openSession loads the story's chapter list and opens a reader session on
// the requested chapter with the preferences of the current session.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) (*reader.Session, string, bool) {
	id := chi.URLParam(r, "id")
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.NotFound(w, r)
		return nil, "", false
	}

	chapters, err := h.store.Chapters(r.Context(), id)
	if err != nil {
		h.renderStoreError(w, r, err, "Story")
		return nil, "", false
	}

	session, err := reader.NewSession(chapters.Count, number, reader.PreferencesFromCookies(r))
	if err != nil {
		if errors.Is(err, reader.ErrChapterOutOfRange) {
			h.renderError(w, r, http.StatusNotFound, "Chapter not found", "This chapter does not exist or has been removed.")
			return nil, "", false
		}
		h.renderError(w, r, http.StatusUnprocessableEntity, "Invalid settings", err.Error())
		return nil, "", false
	}
	return session, id, true
}

func (h *Handler) Chapter(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.openSession(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("settings") == "1" {
		session.OpenSettings()
	}

	story, err := h.store.Story(r.Context(), id)
	if err != nil {
		h.renderStoreError(w, r, err, "Story")
		return
	}
	chapter, err := h.store.Chapter(r.Context(), id, session.ChapterNumber())
	if err != nil {
		h.renderStoreError(w, r, err, "Chapter")
		return
	}

	setCookie(w, progressPrefix+id, strconv.Itoa(chapter.ChapterNumber))
	setCookie(w, lastReadCookie, id)

	state := session.Snapshot()
	props := views.ReaderProps{
		BaseProps: h.base(
			fmt.Sprintf("Chapter %d: %s - %s", chapter.ChapterNumber, chapter.Title, story.Title),
			fmt.Sprintf("Read chapter %d of %s by %s.", chapter.ChapterNumber, story.Title, story.Author),
			views.ReadURL(id, chapter.ChapterNumber),
		),
		Story:        *story,
		Chapter:      *chapter,
		Paragraphs:   views.Paragraphs(chapter.Content),
		State:        state,
		FontFamilies: make([]views.Option, 0, len(reader.FontFamilies)),
		Backgrounds:  make([]views.Option, 0, len(reader.BackgroundModes)),
	}
	props.IsReader = true
	if state.HasPrev {
		props.PrevURL = views.ReadURL(id, state.ChapterNumber-1)
	}
	if state.HasNext {
		props.NextURL = views.ReadURL(id, state.ChapterNumber+1)
	}
	for _, f := range reader.FontFamilies {
		props.FontFamilies = append(props.FontFamilies, views.Option{
			Value:    string(f),
			Label:    views.GetFontLabel(f),
			Selected: f == state.Preferences.FontFamily,
		})
	}
	for _, m := range reader.BackgroundModes {
		props.Backgrounds = append(props.Backgrounds, views.Option{
			Value:    string(m),
			Label:    views.GetBackgroundLabel(m),
			Selected: m == state.Preferences.BackgroundMode,
		})
	}

	h.render(w, r, http.StatusOK, views.Reader(props))
}

// formEvents turns the settings form buttons into reader events.
func formEvents(r *http.Request) []reader.Event {
	var events []reader.Event
	switch r.PostForm.Get("event") {
	case "font_increase":
		events = append(events, reader.Event{Type: reader.EventFontIncrease})
	case "font_decrease":
		events = append(events, reader.Event{Type: reader.EventFontDecrease})
	case "line_height_up":
		events = append(events, reader.Event{Type: reader.EventLineHeightStep, Number: 1})
	case "line_height_down":
		events = append(events, reader.Event{Type: reader.EventLineHeightStep, Number: -1})
	}
	if v := r.PostForm.Get("font_family"); v != "" {
		events = append(events, reader.Event{Type: reader.EventFontFamily, Value: v})
	}
	if v := r.PostForm.Get("background"); v != "" {
		events = append(events, reader.Event{Type: reader.EventBackground, Value: v})
	}
	return events
}

// UpdatePreferences applies the settings form to the session preferences and
// sends the reader back to the chapter with the panel open.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	session, id, ok := h.openSession(w, r)
	if !ok {
		return
	}

	for _, e := range formEvents(r) {
		if err := session.Apply(e); err != nil {
			h.renderError(w, r, http.StatusUnprocessableEntity, "Invalid settings", err.Error())
			return
		}
	}

	setPreferenceCookies(w, id, session.Preferences())
	http.Redirect(w, r, views.ReadURL(id, session.ChapterNumber())+"?settings=1", http.StatusSeeOther)
}
