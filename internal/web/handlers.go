package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/assets/templates"
	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/covers"
	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/ch1kulya/mstories/internal/web/views"
	"github.com/go-chi/chi/v5"
)

const (
	sortCookie     = "mstories_catalog_sort"
	lastReadCookie = "mstories_last_read"
	progressPrefix = "mstories_prog_"

	topStories     = 5
	rankingLimit   = 20
	relatedStories = 4
)

type Handler struct {
	store        *data.Store
	covers       *covers.Service
	domain       string
	assetVersion int64
}

func NewHandler(store *data.Store, covers *covers.Service, domain string) *Handler {
	return &Handler{
		store:        store,
		covers:       covers,
		domain:       strings.TrimSuffix(domain, "/"),
		assetVersion: time.Now().Unix(),
	}
}

func (h *Handler) base(title, description, path string) views.BaseProps {
	return views.BaseProps{
		Title:       title,
		Description: description,
		Canonical:   h.domain + path,
		Version:     h.assetVersion,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := component.Render(r.Context(), w); err != nil {
		logger.Error("Render %s failed: %v", r.URL.Path, err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, code int, title, message string) {
	props := views.ErrorProps{
		BaseProps:    h.base(fmt.Sprintf("%d - %s", code, title), message, ""),
		ErrorCode:    code,
		ErrorTitle:   title,
		ErrorMessage: message,
	}
	props.Canonical = ""
	h.render(w, r, code, views.Error(props))
}

// renderStoreError maps data layer failures onto an error page.
func (h *Handler) renderStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, data.ErrNotFound) {
		h.renderError(w, r, http.StatusNotFound, what+" not found", "We could not find what you were looking for.")
		return
	}
	logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	h.renderError(w, r, http.StatusServiceUnavailable, "Service unavailable", "The catalog could not be loaded. Please try again later.")
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found", "The page you requested does not exist.")
}

func (h *Handler) RobotsTxt(w http.ResponseWriter, r *http.Request) {
	robots, err := templates.RenderRobots(templates.RobotsData{Domain: h.domain})
	if err != nil {
		logger.Error("Robots rendering failed: %v", err)
		http.Error(w, "Failed to render robots.txt", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(robots))
}

func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.SitemapData(r.Context())
	if err != nil {
		logger.Error("Sitemap generation failed: %v", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}
	stories, err := h.store.Stories(r.Context())
	if err != nil {
		logger.Error("Sitemap generation failed: %v", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	sitemapStories := make([]templates.SitemapStory, 0, len(items))
	for _, item := range items {
		sitemapStories = append(sitemapStories, templates.SitemapStory{ID: item.ID, UpdatedAt: item.UpdatedAt})
	}

	xml, err := templates.RenderSitemap(templates.SitemapData{
		Domain: h.domain,
		StaticPages: []templates.StaticPage{
			{Path: "/", Priority: "1.0"},
			{Path: "/rankings", Priority: "0.6"},
		},
		Stories: sitemapStories,
		Authors: catalog.Authors(stories),
	})
	if err != nil {
		logger.Error("Sitemap rendering failed: %v", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml))
}

// listParam collects repeated and comma-separated values of key.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func options(values, selected []string, label func(string) string) []views.Option {
	opts := make([]views.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, views.Option{
			Value:    v,
			Label:    label(v),
			Selected: slices.Contains(selected, v),
		})
	}
	return opts
}

func identity(s string) string { return s }

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := catalog.FilterSpec{
		Genres:   listParam(q, "genre"),
		Statuses: listParam(q, "status"),
		Buckets:  listParam(q, "length"),
		Query:    q.Get("q"),
	}

	sortParam := q.Get("sort")
	if !q.Has("sort") {
		if cookie, err := r.Cookie(sortCookie); err == nil {
			sortParam = cookie.Value
		}
	}
	key, ok := catalog.ParseSortKey(sortParam)
	if !ok {
		key = catalog.SortNone
	}
	spec.Sort = key

	if q.Has("sort") && key != catalog.SortShuffle {
		http.SetCookie(w, &http.Cookie{
			Name:     sortCookie,
			Value:    string(key),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	stories, err := h.store.Stories(r.Context())
	if err != nil {
		h.renderStoreError(w, r, err, "Catalog")
		return
	}

	buckets := make([]string, len(catalog.Buckets))
	for i, b := range catalog.Buckets {
		buckets[i] = string(b)
	}

	selectedBuckets := make([]string, 0, len(spec.Buckets))
	for _, label := range spec.Buckets {
		if b, ok := catalog.ParseBucket(label); ok {
			selectedBuckets = append(selectedBuckets, string(b))
		}
	}

	top := catalog.Rank(stories, catalog.MetricViews)
	top = top[:min(len(top), topStories)]

	description := "Read web serials and original stories online. Filter the catalog by genre, status and length."
	props := views.HomeProps{
		BaseProps: h.base("mstories: free web serials", description, "/"),
		Stories:   catalog.Apply(stories, spec),
		Filters: []views.FilterGroup{
			{Legend: "Genre", Name: "genre", Options: options(catalog.Genres(stories), spec.Genres, identity)},
			{Legend: "Status", Name: "status", Options: options(catalog.Statuses, lowerAll(spec.Statuses), views.MapStatus)},
			{Legend: "Length", Name: "length", Options: options(buckets, selectedBuckets, identity)},
		},
		Query:    strings.TrimSpace(spec.Query),
		Sort:     key,
		SortTabs: sortTabs(q, key),
		Filtered: !spec.IsEmpty(),
		Top:      top,
		Continue: h.lastRead(r),
	}
	props.Nav = "home"
	if schema, err := templates.RenderSchemaWebsite(templates.SchemaWebsiteData{
		Domain:      h.domain,
		Canonical:   props.Canonical,
		Title:       props.Title,
		Description: description,
	}); err == nil {
		props.Schema = template.HTML(schema)
	}

	if key == catalog.SortShuffle {
		w.Header().Set("Cache-Control", "no-store")
	}
	h.render(w, r, http.StatusOK, views.Home(props))
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// sortTabs links every sort key with the current filters kept.
func sortTabs(q url.Values, active catalog.SortKey) []views.Tab {
	keys := append([]catalog.SortKey{catalog.SortNone}, catalog.SortKeys...)
	tabs := make([]views.Tab, 0, len(keys))
	for _, key := range keys {
		values := url.Values{}
		for k, v := range q {
			values[k] = slices.Clone(v)
		}
		values.Set("sort", string(key))
		tabs = append(tabs, views.Tab{
			Label:  views.GetSortLabel(key),
			URL:    "/?" + values.Encode(),
			Active: key == active,
		})
	}
	return tabs
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	props := views.SearchProps{
		BaseProps: h.base("Search - mstories", "Search stories by title, author or tag.", "/search"),
		Query:     query,
	}
	if query != "" {
		props.Title = fmt.Sprintf("%s - search - mstories", query)

		stories, err := h.store.Stories(r.Context())
		if err != nil {
			h.renderStoreError(w, r, err, "Catalog")
			return
		}
		props.Stories = catalog.Apply(stories, catalog.FilterSpec{Query: query, Sort: catalog.SortHottest})

		lower := strings.ToLower(query)
		for _, name := range catalog.Authors(stories) {
			if strings.Contains(strings.ToLower(name), lower) {
				props.Authors = append(props.Authors, catalog.StatsFor(stories, name))
			}
		}
	}

	h.render(w, r, http.StatusOK, views.Search(props))
}

func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	metric := catalog.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = catalog.MetricViews
	}
	if !metric.Valid() {
		h.NotFound(w, r)
		return
	}

	stories, err := h.store.Stories(r.Context())
	if err != nil {
		h.renderStoreError(w, r, err, "Catalog")
		return
	}
	ranked := catalog.Rank(stories, metric)

	tabs := make([]views.Tab, 0, len(catalog.Metrics))
	for _, m := range catalog.Metrics {
		tabs = append(tabs, views.Tab{
			Label:  views.GetMetricLabel(m),
			URL:    "/rankings?metric=" + string(m),
			Active: m == metric,
		})
	}

	props := views.RankingsProps{
		BaseProps: h.base(views.GetMetricLabel(metric)+" - rankings - mstories", "The most read, best rated and most discussed stories.", "/rankings?metric="+string(metric)),
		Metric:    metric,
		Tabs:      tabs,
		Stories:   ranked[:min(len(ranked), rankingLimit)],
	}
	props.Nav = "rankings"
	h.render(w, r, http.StatusOK, views.Rankings(props))
}

func (h *Handler) Author(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	profile, err := h.store.Author(r.Context(), name)
	if err != nil {
		h.renderStoreError(w, r, err, "Author")
		return
	}

	props := views.AuthorProps{
		BaseProps: h.base(
			fmt.Sprintf("%s - mstories", name),
			fmt.Sprintf("Stories by %s: %d stories, %s.", name, profile.Stats.StoryCount, views.FormatWords(profile.Stats.TotalWords)),
			views.AuthorURL(name),
		),
		Profile: *profile,
	}
	h.render(w, r, http.StatusOK, views.Author(props))
}

// Cover serves the generated cover of a story, redirecting to object
// storage once it has been uploaded there.
func (h *Handler) Cover(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(chi.URLParam(r, "file"), ".png")

	story, err := h.store.Story(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load story", http.StatusServiceUnavailable)
		return
	}

	location, png, err := h.covers.Cover(r.Context(), *story)
	if err != nil {
		logger.Error("Cover for story %s: %v", id, err)
		http.Error(w, "Failed to render cover", http.StatusInternalServerError)
		return
	}
	if location != "" {
		http.Redirect(w, r, location, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

// lastRead builds the continue-reading widget from the cookies the reader
// page leaves behind.
func (h *Handler) lastRead(r *http.Request) *views.ContinueReading {
	cookie, err := r.Cookie(lastReadCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	story, err := h.store.Story(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	chapters, err := h.store.Chapters(r.Context(), story.ID)
	if err != nil {
		return nil
	}
	return continueReading(r, *story, chapters)
}

func continueReading(r *http.Request, story models.Story, chapters *models.ChaptersList) *views.ContinueReading {
	cookie, err := r.Cookie(progressPrefix + story.ID)
	if err != nil || chapters.Count == 0 {
		return nil
	}

	var current int
	if _, err := fmt.Sscanf(cookie.Value, "%d", &current); err != nil || current < 1 || current > chapters.Count {
		return nil
	}

	percent := current * 100 / chapters.Count
	return &views.ContinueReading{
		Story:           story,
		Chapter:         current,
		TotalChapters:   chapters.Count,
		ProgressPercent: max(percent, 1),
	}
}
