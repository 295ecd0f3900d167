// Package dashboard serves the interactive single-page view: a year range
// filter driving the three analyses, their charts, and a sample of rows.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/paperlens/internal/analysis"
	"github.com/KaramelBytes/paperlens/internal/chart"
	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/KaramelBytes/paperlens/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// SampleSize is how many filtered rows the page and /api/sample show.
const SampleSize = 10

// Options configure a Server.
type Options struct {
	Addr        string
	SourcePath  string
	Load        dataset.LoadOptions
	Summary     analysis.SummaryOptions
	SessionTTL  time.Duration
	MaxSessions int // zero means DefaultMaxSessions
}

// Server wires the cache, sessions and handlers behind a chi router.
type Server struct {
	opt      Options
	log      *slog.Logger
	cache    *Cache
	sessions *SessionStore
	metrics  *Metrics
	page     *template.Template
	svg      chart.SVGRenderer
}

// New builds a server. A nil logger discards output.
func New(opt Options, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "dashboard")
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"clip": clipCell,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	m := NewMetrics()
	return &Server{
		opt:      opt,
		log:      log,
		cache:    NewCache(log, m),
		sessions: NewSessionStore(opt.SessionTTL, opt.MaxSessions, m),
		metrics:  m,
		page:     page,
		svg:      chart.SVGRenderer{Width: 560},
	}, nil
}

// Cache exposes the memo cache, mainly for warmup and tests.
func (s *Server) Cache() *Cache { return s.cache }

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/", s.handlePage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/sample", s.handleSample)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Warm loads the configured source into the cache ahead of the first request.
func (s *Server) Warm() error {
	_, err := s.cache.Get(s.opt.SourcePath, s.opt.Load)
	return err
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", s.opt.Addr, "source", s.opt.SourcePath)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("dashboard shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start))
	})
}
