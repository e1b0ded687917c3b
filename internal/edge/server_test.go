package edge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-database/internal/config"
)

const fixtureDir = "../tmdb/testdata/"

// fakeGateway answers like the gateway, from the TMDB fixtures.
type fakeGateway struct {
	calls   atomic.Int64
	failure atomic.Value
	status  atomic.Int64
	empty   atomic.Bool
	mu      sync.Mutex
	last    *http.Request
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = r.Clone(context.Background())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status := int(f.status.Load()); status != 0 {
		w.WriteHeader(status)
		body, _ := f.failure.Load().(string)
		_, _ = w.Write([]byte(body))
		return
	}
	if f.empty.Load() && r.URL.Path != "/movie/550" {
		_, _ = w.Write([]byte(`{"page":1,"total_pages":0,"total_results":0,"results":[]}`))
		return
	}

	var fixture string
	switch r.URL.Path {
	case "/movie/popular", "/movie/search":
		fixture = "popular.json"
	case "/movie/550":
		fixture = "movie_550.json"
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"Cannot GET ` + r.URL.Path + `"}`))
		return
	}
	data, err := os.ReadFile(fixtureDir + fixture)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

func (f *fakeGateway) fail(status int, body string) {
	f.failure.Store(body)
	f.status.Store(int64(status))
}

func (f *fakeGateway) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func buildTestServer(tb testing.TB) (*Server, *fakeGateway, *httptest.Server) {
	tb.Helper()
	fake := &fakeGateway{}
	gw := httptest.NewServer(fake)
	tb.Cleanup(gw.Close)

	cfg := config.Config{
		Edge: config.EdgeConfig{
			Host:         "127.0.0.1",
			Port:         "0",
			APIBaseURL:   gw.URL,
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			TimeoutSecs:  2,
		},
		CORSOrigins: []string{"*"},
	}
	srv, err := New(cfg, zerolog.Nop())
	if err != nil {
		tb.Fatalf("New() error: %v", err)
	}
	return srv, fake, gw
}

func serve(srv *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMovieDetailsRequiresID(t *testing.T) {
	srv, fake, _ := buildTestServer(t)

	rec := serve(srv, "/api/movie-details")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"statusCode":400,"message":"ID is required"}` {
		t.Fatalf("body = %s", got)
	}
	if n := fake.calls.Load(); n != 0 {
		t.Fatalf("gateway calls = %d, want 0", n)
	}
}

func TestMovieDetailsDotSegmentID(t *testing.T) {
	srv, fake, _ := buildTestServer(t)

	rec := serve(srv, "/api/movie-details?id=..")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"statusCode":404,"message":"Cannot GET /movie/.."}` {
		t.Fatalf("body = %s", got)
	}
	if last := fake.lastRequest(); last.URL.Path != "/movie/.." {
		t.Fatalf("gateway path = %q", last.URL.Path)
	}
}

func TestMovieDetailsForwards(t *testing.T) {
	srv, fake, _ := buildTestServer(t)

	rec := serve(srv, "/api/movie-details?id=550&extra=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	last := fake.lastRequest()
	if last.URL.Path != "/movie/550" || last.URL.RawQuery != "" {
		t.Fatalf("gateway request = %s?%s", last.URL.Path, last.URL.RawQuery)
	}

	want, _ := os.ReadFile(fixtureDir + "movie_550.json")
	if rec.Body.String() != string(want) {
		t.Fatalf("body was not relayed verbatim")
	}
}

func TestListEndpointsForwardRawQuery(t *testing.T) {
	tests := []struct {
		target   string
		wantPath string
		wantRaw  string
	}{
		{"/api/popular-movies?page=1&language=en-US", "/movie/popular", "page=1&language=en-US"},
		{"/api/popular-movies", "/movie/popular", ""},
		{"/api/search-movies?page=2&query=fight+club", "/movie/search", "page=2&query=fight+club"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			srv, fake, _ := buildTestServer(t)

			rec := serve(srv, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			last := fake.lastRequest()
			if last.URL.Path != tt.wantPath || last.URL.RawQuery != tt.wantRaw {
				t.Fatalf("gateway request = %s?%s, want %s?%s", last.URL.Path, last.URL.RawQuery, tt.wantPath, tt.wantRaw)
			}
			if last.Header.Get("Accept") != "application/json" || last.Header.Get("Content-Type") != "application/json" {
				t.Fatalf("gateway headers = %v", last.Header)
			}
		})
	}
}

func TestGatewayErrorsPassThrough(t *testing.T) {
	srv, fake, _ := buildTestServer(t)
	fake.fail(http.StatusBadRequest, `{"code":"BAD_REQUEST","message":"Search query is required"}`)

	rec := serve(srv, "/api/search-movies")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["statusCode"] != float64(400) || body["message"] != "Search query is required" {
		t.Fatalf("body = %v", body)
	}
}

func TestGatewayUnreachable(t *testing.T) {
	srv, _, gw := buildTestServer(t)
	gw.Close()

	rec := serve(srv, "/api/popular-movies")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["statusCode"]; ok {
		t.Fatalf("absent status must be omitted: %v", body)
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatalf("message missing: %v", body)
	}
}

func TestIndexPage(t *testing.T) {
	srv, _, _ := buildTestServer(t)

	rec := serve(srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	previews := doc.Find("#popular-movies .movie-preview")
	if previews.Length() != 2 {
		t.Fatalf("previews = %d, want 2", previews.Length())
	}
	first := previews.First()
	if href, _ := first.Attr("href"); href != "/movie/550" {
		t.Fatalf("href = %q", href)
	}
	if src, _ := first.Find("img").Attr("src"); src != "https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg" {
		t.Fatalf("poster src = %q", src)
	}
	if badge := first.Find(".p-badge").Text(); badge != "84%" {
		t.Fatalf("badge = %q", badge)
	}
	if !strings.Contains(first.Text(), "Released on 1999-10-15") {
		t.Fatalf("release date missing: %q", first.Text())
	}
	if doc.Find("#search-results").Length() != 0 {
		t.Fatalf("search section rendered without a query")
	}
	if next, _ := doc.Find("#popular-movies a[rel=next]").Attr("href"); next != "/?page=2" {
		t.Fatalf("next link = %q", next)
	}
}

func TestIndexPageWithSearch(t *testing.T) {
	srv, fake, _ := buildTestServer(t)

	rec := serve(srv, "/?query=fight+club&searchPage=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	last := fake.lastRequest()
	if last.URL.Path != "/movie/search" || last.URL.Query().Get("page") != "3" || last.URL.Query().Get("query") != "fight club" {
		t.Fatalf("search request = %s?%s", last.URL.Path, last.URL.RawQuery)
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if n := doc.Find("#search-results .movie-preview").Length(); n != 2 {
		t.Fatalf("search previews = %d, want 2", n)
	}
	if v, _ := doc.Find("input[name=query]").Attr("value"); v != "fight club" {
		t.Fatalf("search input value = %q", v)
	}
}

func TestIndexPageEmptyResults(t *testing.T) {
	srv, fake, _ := buildTestServer(t)
	fake.empty.Store(true)

	doc, err := goquery.NewDocumentFromReader(serve(srv, "/").Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if got := strings.TrimSpace(doc.Find("#popular-movies .empty").Text()); got != "No movies found" {
		t.Fatalf("empty state = %q", got)
	}
}

func TestIndexPageGatewayError(t *testing.T) {
	srv, fake, _ := buildTestServer(t)
	fake.fail(http.StatusUnprocessableEntity, `{"code":"VALIDATION_ERROR","message":"Validation error","errors":{"page":"page must be an integer number"}}`)

	rec := serve(srv, "/?page=abc")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if got := doc.Find(".error .message").Text(); got != "Validation error" {
		t.Fatalf("message = %q", got)
	}
}

func TestMoviePage(t *testing.T) {
	srv, _, _ := buildTestServer(t)

	rec := serve(srv, "/movie/550")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	checks := map[string]string{
		"title":             "Fight Club | Movie Database",
		".movie-details h1": "Fight Club",
		".tagline":          "Mischief. Mayhem. Soap.",
		".language":         "English",
		".p-badge":          "84%",
		".runtime":          "139 min",
	}
	for selector, want := range checks {
		if got := strings.TrimSpace(doc.Find(selector).First().Text()); got != want {
			t.Fatalf("%s = %q, want %q", selector, got, want)
		}
	}
	if img, _ := doc.Find(`meta[property="og:image"]`).Attr("content"); img != "https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg" {
		t.Fatalf("og:image = %q", img)
	}
	if desc, _ := doc.Find(`meta[name="description"]`).Attr("content"); !strings.HasPrefix(desc, "A ticking-time-bomb insomniac") {
		t.Fatalf("description = %q", desc)
	}
}

func TestMoviePageRedirectsHomeOnError(t *testing.T) {
	srv, _, _ := buildTestServer(t)

	rec := serve(srv, "/movie/999")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q, want 302 /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestStaticAndHealthz(t *testing.T) {
	srv, _, _ := buildTestServer(t)

	if rec := serve(srv, "/static/site.css"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ".movie-grid") {
		t.Fatalf("stylesheet = %d", rec.Code)
	}
	if rec := serve(srv, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	rec := serve(srv, "/unknown")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"statusCode":404`) {
		t.Fatalf("unknown route = %d %s", rec.Code, rec.Body.String())
	}
}
