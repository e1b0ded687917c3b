// Package edge is the browser-facing proxy. It forwards API calls to the
// gateway, passing the gateway's status and message through, and renders
// the HTML pages.
package edge

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

	"github.com/Clark-Hu/movie-database/internal/config"
	"github.com/Clark-Hu/movie-database/internal/edge/web"
	"github.com/Clark-Hu/movie-database/internal/forward"
	"github.com/Clark-Hu/movie-database/internal/logging"
	"github.com/Clark-Hu/movie-database/internal/metrics"
	"github.com/Clark-Hu/movie-database/internal/middleware"
)

// Gateway routes the edge forwards to.
const (
	GatewayPopular = "/movie/popular"
	GatewaySearch  = "/movie/search"
	GatewayMovie   = "/movie/"
)

// Server wires the edge's routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	gateway *forward.Forwarder
	pages   *web.Renderer
	logger  zerolog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the edge server.
func New(cfg config.Config, logger zerolog.Logger) (*Server, error) {
	logger = logger.With().Str("component", "edge").Logger()

	gateway, err := forward.New(forward.Options{
		Name:    "gateway",
		BaseURL: cfg.Edge.APIBaseURL,
		Timeout: cfg.Edge.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	pages, err := web.New(cfg.Edge.ImageBaseURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		gateway: gateway,
		pages:   pages,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.Recoverer(logger, s.handlePanic))
	s.router.Use(metrics.Middleware("edge"))
	s.router.Use(middleware.NoCache)
	s.router.Use(middleware.SecurityHeaders)
	s.router.Use(middleware.CORS(cfg.CORSOrigins))
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/movie-details", s.handleMovieDetails)
		r.Get("/popular-movies", s.handlePopularMovies)
		r.Get("/search-movies", s.handleSearchMovies)
	})

	s.router.Get("/", s.handleIndexPage)
	s.router.Get("/movie/{id}", s.handleMoviePage)
}

// Handler exposes the router, mainly for tests and supervisors.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Edge.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info().Str("addr", s.httpSrv.Addr).Str("gateway", s.cfg.Edge.APIBaseURL).Msg("edge listening")

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
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, &Error{StatusCode: http.StatusNotFound, Message: "Page not found: " + r.URL.Path})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, &Error{StatusCode: http.StatusMethodNotAllowed, Message: "Method " + r.Method + " is not allowed"})
}

func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, &Error{StatusCode: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)})
}

// respondError writes the edge envelope for err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	edgeErr := MapError(err)
	status := edgeErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context(), s.logger).Error().
			Err(err).
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Int("status_code", edgeErr.StatusCode).
			Msg(edgeErr.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(edgeErr); encErr != nil {
		s.logger.Error().Err(encErr).Msg("failed to encode response")
	}
}
