// Package tmdb is the gateway's client for The Movie Database API.
package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-database/internal/apierror"
	"github.com/Clark-Hu/movie-database/internal/config"
	"github.com/Clark-Hu/movie-database/internal/domain"
	"github.com/Clark-Hu/movie-database/internal/forward"
	"github.com/Clark-Hu/movie-database/internal/logging"
	"github.com/Clark-Hu/movie-database/internal/query"
)

// Upstream paths.
const (
	PathPopular = "/movie/popular"
	PathSearch  = "/search/movie"
	PathMovie   = "/movie/"
)

// Messages returned to callers when TMDB cannot be reached or rejects a call.
const (
	MsgPopularFailed = "Failed to fetch popular movies"
	MsgSearchFailed  = "Failed to search for movies"
	MsgDetailsFailed = "Failed to fetch movie details"
)

// errMalformedBody marks a 2xx response whose body is not JSON.
var errMalformedBody = errors.New("tmdb: malformed response body")

// Client queries TMDB through a Forwarder. Successful bodies are returned
// as received so fields outside domain.MovieResults and domain.MovieDetails,
// and explicit nulls, reach the caller unchanged.
type Client struct {
	fwd    *forward.Forwarder
	logger zerolog.Logger
}

// NewClient builds a client authenticated with the bearer token from cfg.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) (*Client, error) {
	token := cfg.Token
	fwd, err := forward.New(forward.Options{
		Name:    "tmdb",
		BaseURL: cfg.BaseURL,
		HeaderFunc: func(h http.Header) {
			h.Set("Authorization", "Bearer "+token)
		},
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		fwd:    fwd,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}, nil
}

// Popular lists popular movies. The search term, if any, is not sent.
// The result decodes into domain.MovieResults.
func (c *Client) Popular(ctx context.Context, q domain.MovieQuery) (json.RawMessage, error) {
	return c.get(ctx, "popular", MsgPopularFailed, PathPopular, q.Values(false))
}

// Search finds movies matching q.Query. An empty term fails without
// contacting TMDB. The result decodes into domain.MovieResults.
func (c *Client) Search(ctx context.Context, q domain.MovieQuery) (json.RawMessage, error) {
	if err := query.RequireQuery(q); err != nil {
		return nil, err
	}
	return c.get(ctx, "search", MsgSearchFailed, PathSearch, q.Values(true))
}

// Details fetches a single movie. The result decodes into
// domain.MovieDetails.
func (c *Client) Details(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, "details", MsgDetailsFailed, PathMovie+strconv.FormatInt(id, 10), nil)
}

func (c *Client) get(ctx context.Context, op, message, path string, params url.Values) (json.RawMessage, error) {
	var body []byte
	if err := c.fwd.Get(ctx, path, params, &body); err != nil {
		return nil, c.fail(ctx, op, message, err)
	}
	if !json.Valid(body) {
		return nil, c.fail(ctx, op, message, errMalformedBody)
	}
	return json.RawMessage(body), nil
}

// fail logs the underlying cause and returns the opaque error sent to clients.
func (c *Client) fail(ctx context.Context, op, message string, err error) error {
	event := logging.Ctx(ctx, c.logger).Error().Err(err).Str("operation", op)
	if se, ok := forward.AsStatus(err); ok {
		event = event.Int("upstream_status", se.StatusCode).Bytes("upstream_body", se.Body)
	}
	event.Msg(message)
	return apierror.Upstream(message, err)
}
