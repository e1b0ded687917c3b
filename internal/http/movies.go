package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-database/internal/apierror"
	"github.com/Clark-Hu/movie-database/internal/logging"
	"github.com/Clark-Hu/movie-database/internal/query"
)

// RootMessage is the plain-text body served at "/".
const RootMessage = "Movie Database API"

// maxLoggedBody bounds how much of a request body is attached to error logs.
const maxLoggedBody = 4 << 10

// handleRoot godoc
// @Summary  Service banner
// @Produce  plain
// @Success  200 {string} string "Movie Database API"
// @Router   / [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, RootMessage)
}

// handlePopular godoc
// @Summary  List popular movies
// @Tags     movie
// @Produce  json
// @Param    page          query int    false "Page number"  default(1)
// @Param    includeAdult  query bool   false "Include adult titles" default(false)
// @Param    language      query string false "Language"     default(en-US)
// @Success  200 {object} domain.MovieResults
// @Failure  422 {object} apierror.Normalized
// @Failure  500 {object} apierror.Normalized
// @Router   /movie/popular [get]
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	q, err := query.Normalize(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.movies.Popular(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondRaw(w, http.StatusOK, res)
}

// handleSearch godoc
// @Summary  Search movies by title
// @Tags     movie
// @Produce  json
// @Param    query         query string true  "Search term"
// @Param    page          query int    false "Page number"  default(1)
// @Param    includeAdult  query bool   false "Include adult titles" default(false)
// @Param    language      query string false "Language"     default(en-US)
// @Success  200 {object} domain.MovieResults
// @Failure  400 {object} apierror.Normalized
// @Failure  422 {object} apierror.Normalized
// @Failure  500 {object} apierror.Normalized
// @Router   /movie/search [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := query.Normalize(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.movies.Search(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondRaw(w, http.StatusOK, res)
}

// handleDetails godoc
// @Summary  Movie details
// @Tags     movie
// @Produce  json
// @Param    id  path int true "TMDB movie id"
// @Success  200 {object} domain.MovieDetails
// @Failure  500 {object} apierror.Normalized
// @Router   /movie/{id} [get]
func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	res, err := s.movies.Details(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondRaw(w, http.StatusOK, res)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, apierror.NotFound(cannot(r)))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, apierror.New(http.StatusMethodNotAllowed, cannot(r)))
}

func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusInternalServerError, apierror.New(http.StatusInternalServerError, apierror.MessageInternal).Normalized())
}

func cannot(r *http.Request) string {
	return "Cannot " + r.Method + " " + r.URL.Path
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// respondRaw writes an upstream JSON body without re-encoding it.
func (s *Server) respondRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

// respondError writes the normalized envelope for err. Server-side failures
// are logged with the request that caused them.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierror.From(err)
	body := apiErr.Normalized()
	if apiErr.ServerSide() {
		event := logging.Ctx(r.Context(), s.logger).Error().
			Err(err).
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Interface("query", r.URL.Query()).
			Interface("response", body)
		if r.Body != nil {
			if raw, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody)); len(raw) > 0 {
				event = event.Bytes("body", raw)
			}
		}
		event.Msg(apiErr.Message)
	}
	s.respondJSON(w, apiErr.Status, body)
}
