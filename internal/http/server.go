package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/Clark-Hu/movie-database/internal/config"
	"github.com/Clark-Hu/movie-database/internal/domain"
	"github.com/Clark-Hu/movie-database/internal/metrics"
	"github.com/Clark-Hu/movie-database/internal/middleware"

	_ "github.com/Clark-Hu/movie-database/docs"
)

// MovieService is the upstream catalogue the gateway fronts. Results are
// the upstream JSON bodies, relayed to clients byte for byte.
type MovieService interface {
	Popular(ctx context.Context, q domain.MovieQuery) (json.RawMessage, error)
	Search(ctx context.Context, q domain.MovieQuery) (json.RawMessage, error)
	Details(ctx context.Context, id int64) (json.RawMessage, error)
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	movies  MovieService
	logger  zerolog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, movies MovieService, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "gateway").Logger()

	s := &Server{
		cfg:    cfg,
		movies: movies,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.Recoverer(logger, s.handlePanic))
	s.router.Use(metrics.Middleware("gateway"))
	s.router.Use(middleware.NoCache)
	s.router.Use(middleware.SecurityHeaders)
	s.router.Use(middleware.CORS(cfg.CORSOrigins))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router.Get("/", s.handleRoot)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/*", httpSwagger.Handler(
		httpSwagger.URL("/api/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	s.router.Route("/movie", func(r chi.Router) {
		r.Get("/popular", s.handlePopular)
		r.Get("/search", s.handleSearch)
		r.Get("/{id:[0-9]+}", s.handleDetails)
	})
}

// Handler exposes the router, mainly for tests and supervisors.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.Gateway.Addr(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Gateway.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Gateway.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Gateway.IdleTimeoutSecs) * time.Second,
	}
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("gateway listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
