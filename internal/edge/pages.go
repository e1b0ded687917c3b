package edge

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-database/internal/domain"
	"github.com/Clark-Hu/movie-database/internal/edge/web"
	"github.com/Clark-Hu/movie-database/internal/logging"
)

const siteTitle = "Movie Database"

// handleIndexPage renders popular movies (?page=) and, when ?query= is set,
// search results (?searchPage=).
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	term := params.Get("query")

	page := web.IndexPage{
		Meta:  web.Meta{Title: siteTitle, Description: "Browse popular movies and search The Movie Database."},
		Query: term,
	}

	popularParams := url.Values{}
	if p := params.Get("page"); p != "" {
		popularParams.Set("page", p)
	}
	if err := s.gateway.Get(r.Context(), GatewayPopular, popularParams, &page.Popular.Results); err != nil {
		s.renderError(w, r, err)
		return
	}
	page.Popular.PrevURL, page.Popular.NextURL = pageLinks(params, "page", page.Popular.Results)

	if term != "" {
		searchParams := url.Values{"query": {term}}
		if p := params.Get("searchPage"); p != "" {
			searchParams.Set("page", p)
		}
		if err := s.gateway.Get(r.Context(), GatewaySearch, searchParams, &page.Search.Results); err != nil {
			s.renderError(w, r, err)
			return
		}
		page.Search.PrevURL, page.Search.NextURL = pageLinks(params, "searchPage", page.Search.Results)
		page.Meta.Title = term + " | " + siteTitle
	}

	s.render(w, r, http.StatusOK, "index.html", page)
}

// handleMoviePage renders a single movie. Any failure sends the visitor home.
func (s *Server) handleMoviePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var movie domain.MovieDetails
	if err := s.gateway.Get(r.Context(), GatewayMovie+url.PathEscape(id), nil, &movie); err != nil {
		logging.Ctx(r.Context(), s.logger).Warn().Err(err).Str("id", id).Msg("movie page unavailable, redirecting home")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.render(w, r, http.StatusOK, "movie.html", web.MoviePage{
		Meta: web.Meta{
			Title:       movie.Title + " | " + siteTitle,
			Description: movie.Overview,
			Image:       s.pages.PosterURL(movie.PosterPath),
		},
		Movie: movie,
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	edgeErr := MapError(err)
	status := edgeErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context(), s.logger).Error().Err(err).Str("url", r.URL.RequestURI()).Msg(edgeErr.Message)
	}
	s.render(w, r, status, "error.html", web.ErrorPage{
		Meta:    web.Meta{Title: strconv.Itoa(status) + " | " + siteTitle},
		Status:  status,
		Message: edgeErr.Message,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := s.pages.Render(w, status, name, data); err != nil {
		logging.Ctx(r.Context(), s.logger).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// pageLinks builds previous/next URLs for the list paged by key, keeping
// the other parameters of the current request.
func pageLinks(current url.Values, key string, res domain.MovieResults) (prev, next string) {
	link := func(page int) string {
		params := url.Values{}
		for k, v := range current {
			params[k] = v
		}
		params.Set(key, strconv.Itoa(page))
		return "/?" + params.Encode()
	}
	if res.Page > 1 {
		prev = link(res.Page - 1)
	}
	if res.Page < res.TotalPages {
		next = link(res.Page + 1)
	}
	return prev, next
}
