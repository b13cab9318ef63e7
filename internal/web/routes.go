package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the HTML pages on r.
func (h *Handler) Routes(r chi.Router) {
	r.NotFound(h.NotFound)

	r.Get("/robots.txt", h.RobotsTxt)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/", h.Home)
	r.Get("/search", h.Search)
	r.Get("/rankings", h.Rankings)
	r.Get("/author/{name}", h.Author)
	r.Get("/story/{id}", h.Story)
	r.Post("/story/{id}/comments", h.PostComment)
	r.Get("/read/{id}/{number}", h.Chapter)
	r.Post("/read/{id}/{number}/preferences", h.UpdatePreferences)
	r.Get("/covers/{file}", h.Cover)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
