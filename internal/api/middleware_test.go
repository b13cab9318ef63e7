package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheMiddleware(t *testing.T) {
	h := CacheMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name   string
		method string
		target string
		want   string
	}{
		{name: "catalog", method: http.MethodGet, target: "/api/stories?sort=hottest", want: "public, max-age=300"},
		{name: "story", method: http.MethodGet, target: "/api/stories/1", want: "public, max-age=300"},
		{name: "shuffle", method: http.MethodGet, target: "/api/stories?sort=shuffle", want: "no-store"},
		{name: "comment thread", method: http.MethodGet, target: "/api/stories/1/comments", want: "no-store"},
		{name: "posting", method: http.MethodPost, target: "/api/stories/1/comments", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
		})
	}
}

func TestServiceToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	r.Header.Set("X-Service-Token", "secret")

	assert.True(t, ServiceToken("secret")(r))
	assert.False(t, ServiceToken("other")(r))
	assert.False(t, ServiceToken("")(httptest.NewRequest(http.MethodGet, "/", nil)))
}
