// Package web renders the edge proxy's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Clark-Hu/movie-database/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Meta feeds the <head> of every page.
type Meta struct {
	Title       string
	Description string
	Image       string
}

// ListView is one paged list of movies plus its navigation links.
type ListView struct {
	Results domain.MovieResults
	PrevURL string
	NextURL string
}

// IndexPage is the home page: popular movies and, when a term is given,
// search results.
type IndexPage struct {
	Meta    Meta
	Query   string
	Popular ListView
	Search  ListView
}

// MoviePage shows a single movie.
type MoviePage struct {
	Meta  Meta
	Movie domain.MovieDetails
}

// ErrorPage is rendered when the gateway call behind a page fails.
type ErrorPage struct {
	Meta    Meta
	Status  int
	Message string
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl         *template.Template
	imageBaseURL string
}

// New parses the templates. Poster URLs are built on imageBaseURL.
func New(imageBaseURL string) (*Renderer, error) {
	r := &Renderer{imageBaseURL: imageBaseURL}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"poster":   r.PosterURL,
		"rating":   Rating,
		"language": Language,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render executes the named template and writes it with status. Nothing is
// written if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// PosterURL joins the image base URL with a poster path. A missing path
// yields the bare base URL.
func (r *Renderer) PosterURL(path *string) string {
	if path == nil {
		return r.imageBaseURL
	}
	return r.imageBaseURL + *path
}

// Rating formats a 0-10 vote average as a whole percentage.
func Rating(voteAverage float64) string {
	return fmt.Sprintf("%.0f%%", voteAverage*10)
}

// Language returns the name of the movie's original language, or "" when
// it is not among the spoken languages.
func Language(m domain.MovieDetails) string {
	for _, l := range m.SpokenLanguages {
		if l.ISO6391 == m.OriginalLanguage {
			return l.Name
		}
	}
	return ""
}

// Static serves the embedded stylesheet.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
