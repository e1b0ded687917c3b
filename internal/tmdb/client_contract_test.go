package tmdb

import (
	"context"
	"os"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-database/internal/config"
	"github.com/Clark-Hu/movie-database/internal/domain"
)

// TestClientSmoke checks that the client can parse a live TMDB (or
// cmd/tmdb-mock) response. It only runs when credentials are provided.
func TestClientSmoke(t *testing.T) {
	baseURL := os.Getenv("TMDB_BASE_URL")
	token := os.Getenv("TMDB_TOKEN")
	if baseURL == "" || token == "" {
		t.Skip("TMDB_BASE_URL or TMDB_TOKEN not provided")
	}
	client, err := NewClient(config.TMDBConfig{BaseURL: baseURL, Token: token, TimeoutSecs: 3}, zerolog.Nop())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := client.Popular(ctx, domain.NewMovieQuery())
	if err != nil {
		t.Fatalf("fetch popular: %v", err)
	}
	var res domain.MovieResults
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decode popular: %v", err)
	}
	if res.Page != 1 || len(res.Results) == 0 {
		t.Fatalf("unexpected popular payload: %+v", res)
	}
}
