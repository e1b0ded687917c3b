// Command tmdb-mock serves a canned subset of the TMDB v3 API for local runs
// and end-to-end checks.
package main

import (
	"flag"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-database/internal/domain"
)

// mockData is the file layout: one popular listing plus details keyed by id.
type mockData struct {
	Popular domain.MovieResults            `json:"popular"`
	Movies  map[string]domain.MovieDetails `json:"movies"`
}

func main() {
	var (
		port    = flag.String("port", "9098", "port to listen on")
		data    = flag.String("data", "cmd/tmdb-mock/mock-tmdb.json", "path to mock data file")
		token   = flag.String("token", "", "bearer token to require; empty accepts any")
		logReqs = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "tmdb-mock").Logger()

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Msg("read mock data")
	}
	var payload mockData
	if err := json.Unmarshal(file, &payload); err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}

	r := chi.NewRouter()
	if *logReqs {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				logger.Info().Str("method", req.Method).Str("url", req.URL.RequestURI()).Msg("request")
				next.ServeHTTP(w, req)
			})
		})
	}
	if *token != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer "+*token {
					writeJSON(w, http.StatusUnauthorized, statusMessage(7, "Invalid API key: You must be granted a valid key."))
					return
				}
				next.ServeHTTP(w, req)
			})
		})
	}

	r.Route("/3", func(r chi.Router) {
		r.Get("/movie/popular", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, withPage(payload.Popular, req))
		})
		r.Get("/search/movie", func(w http.ResponseWriter, req *http.Request) {
			term := strings.ToLower(req.URL.Query().Get("query"))
			res := domain.MovieResults{Page: 1, TotalPages: 1, Results: []domain.MovieSummary{}}
			for _, m := range payload.Popular.Results {
				if term != "" && strings.Contains(strings.ToLower(m.Title), term) {
					res.Results = append(res.Results, m)
				}
			}
			res.TotalResults = len(res.Results)
			writeJSON(w, http.StatusOK, withPage(res, req))
		})
		r.Get("/movie/{id}", func(w http.ResponseWriter, req *http.Request) {
			movie, ok := payload.Movies[chi.URLParam(req, "id")]
			if !ok {
				writeJSON(w, http.StatusNotFound, statusMessage(34, "The resource you requested could not be found."))
				return
			}
			writeJSON(w, http.StatusOK, movie)
		})
	})

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("movies", len(payload.Movies)).Int("popular", len(payload.Popular.Results)).Msg("mock tmdb listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// withPage echoes a valid ?page= back in the listing.
func withPage(res domain.MovieResults, req *http.Request) domain.MovieResults {
	if p, err := strconv.Atoi(req.URL.Query().Get("page")); err == nil && p > 0 {
		res.Page = p
	}
	return res
}

func statusMessage(code int, msg string) map[string]any {
	return map[string]any{"success": false, "status_code": code, "status_message": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
