package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ch1kulya/logger"
	"github.com/ch1kulya/mstories/assets/templates"
	"github.com/ch1kulya/mstories/internal/api"
	"github.com/ch1kulya/mstories/internal/config"
	"github.com/ch1kulya/mstories/internal/covers"
	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/database"
	"github.com/ch1kulya/mstories/internal/ratelimit"
	"github.com/ch1kulya/mstories/internal/web"
	"github.com/ch1kulya/mstories/internal/web/views"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"
)

//go:embed docs.html
var docsHTML string

func buildAssets() {
	logger.Info("Building assets...")

	result := esbuild.Build(esbuild.BuildOptions{
		EntryPoints: []string{
			"./assets/src/reader.ts",
			"./assets/src/styles/main.css",
		},
		Outdir:            "./assets/static/dist",
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcemap:         esbuild.SourceMapLinked,
		Write:             true,
		Platform:          esbuild.PlatformBrowser,
		Target:            esbuild.ES2020,
		Format:            esbuild.FormatESModule,
		TreeShaking:       esbuild.TreeShakingTrue,
		Define: map[string]string{
			"process.env.API_URL": fmt.Sprintf("%q", "/api"),
		},
	})

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Error("Build error: %s", e.Text)
		}
		return
	}

	for _, warn := range result.Warnings {
		logger.Warn("Build warning: %s", warn.Text)
	}

	logger.Info("Assets built successfully")
}

// openBackend picks Postgres when DATABASE_URL is set and the embedded
// seed catalog otherwise. The returned ping is nil for the seed catalog.
func openBackend(ctx context.Context, cfg *config.Config) (data.Backend, string, func(context.Context) error, func()) {
	if !cfg.UsesDatabase() {
		seed, err := data.LoadSeed()
		if err != nil {
			logger.Error("Seed catalog is invalid: %v", err)
			os.Exit(1)
		}
		logger.Info("DATABASE_URL not set, serving the seed catalog from memory")
		return data.NewMemory(seed), "memory", nil, func() {}
	}

	if err := database.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		logger.Error("Migration failed: %v", err)
		os.Exit(1)
	}

	pool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Database initialization failed: %v", err)
		os.Exit(1)
	}
	return data.NewPostgres(pool), "postgres", pool.Ping, pool.Close
}

func openCovers(cfg *config.Config) (*covers.Service, string) {
	if !cfg.S3.Enabled() {
		logger.Info("S3 not configured, covers are served inline")
		return covers.NewService(nil), ""
	}

	store, err := covers.NewS3Store(cfg.S3)
	if err != nil {
		logger.Warn("S3 client failed, covers are served inline: %v", err)
		return covers.NewService(nil), ""
	}

	origin := ""
	if u, err := url.Parse(store.PublicURL()); err == nil && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}
	return covers.NewService(store), origin
}

func main() {
	logger.Info("Initializing application...")
	cfg := config.Load()

	if err := templates.Init(views.Funcs); err != nil {
		logger.Error("Failed to initialize templates: %v", err)
		os.Exit(1)
	}
	logger.Info("Templates initialized")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, backendName, ping, closeBackend := openBackend(ctx, cfg)
	defer closeBackend()

	store := data.NewStore(backend)
	go store.Run(ctx)

	coverService, coverOrigin := openCovers(cfg)

	if cfg.BuildAssets {
		buildAssets()
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(web.WwwRedirect)

	webRateLimiter := ratelimit.New(10, 20)
	go webRateLimiter.Run(ctx)

	h := web.NewHandler(store, coverService, cfg.Domain)

	r.Group(func(r chi.Router) {
		r.Use(web.SecurityHeadersMiddleware(coverOrigin))

		fileServer := http.FileServer(http.Dir("./assets/static"))
		r.Handle("/assets/*", http.StripPrefix("/assets", web.StaticCacheMiddleware(fileServer)))

		r.Group(func(r chi.Router) {
			r.Use(ratelimit.Middleware(webRateLimiter, nil))
			h.Routes(r)
		})
	})

	apiRateLimiter := ratelimit.New(5, 10)
	go apiRateLimiter.Run(ctx)

	r.Route("/api", func(r chi.Router) {
		r.Use(api.CorsMiddleware(cfg.AllowedOrigin))
		r.Use(ratelimit.Middleware(apiRateLimiter, api.ServiceToken(cfg.APIToken)))
		r.Use(api.CacheMiddleware)

		humaConfig := huma.DefaultConfig("mstories", "stable")
		humaConfig.Info.Description = "Public API for browsing and reading mstories."
		humaConfig.DocsPath = ""
		humaConfig.Servers = []*huma.Server{{URL: "/api"}}

		humaApi := humachi.New(r, humaConfig)

		r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(docsHTML))
		})

		api.Register(humaApi, api.NewHandlers(store, backendName, ping))
	})

	go func() {
		logger.Info("Warming up catalog cache...")
		if _, err := store.SitemapData(ctx); err != nil {
			logger.Warn("Failed to warm up catalog: %v", err)
		} else {
			logger.Info("Catalog cache warmed up.")
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to listen: %s", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited properly")
}
