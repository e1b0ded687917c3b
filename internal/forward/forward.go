// Package forward implements the outbound HTTP call shared by the gateway
// (towards TMDB) and the edge proxy (towards the gateway).
package forward

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-database/internal/logging"
	"github.com/Clark-Hu/movie-database/internal/metrics"
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 64 << 10

// StatusError is returned when the target answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("forward: upstream returned %d", e.StatusCode)
}

// HeaderFunc adds per-call headers, such as credentials read at call time.
type HeaderFunc func(h http.Header)

// Options configures a Forwarder.
type Options struct {
	// Name labels metrics and log entries, e.g. "tmdb" or "gateway".
	Name       string
	BaseURL    string
	Headers    map[string]string
	HeaderFunc HeaderFunc
	Timeout    time.Duration
	// Transport overrides the tuned default transport.
	Transport http.RoundTripper
}

// Forwarder issues GET requests against a fixed base URL and decodes JSON.
type Forwarder struct {
	name       string
	baseURL    *url.URL
	headers    http.Header
	headerFunc HeaderFunc
	client     *http.Client
}

// New constructs a Forwarder.
func New(opts Options) (*Forwarder, error) {
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", opts.Name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%s url must be absolute: %q", opts.Name, opts.BaseURL)
	}

	headers := make(http.Header, len(opts.Headers)+2)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   opts.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   opts.Timeout,
			ResponseHeaderTimeout: opts.Timeout,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	return &Forwarder{
		name:       opts.Name,
		baseURL:    parsed,
		headers:    headers,
		headerFunc: opts.HeaderFunc,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}, nil
}

// Get requests path with params and decodes a 2xx JSON body into dst.
func (f *Forwarder) Get(ctx context.Context, path string, params url.Values, dst any) error {
	return f.GetRaw(ctx, path, params.Encode(), dst)
}

// GetRaw is Get with an already encoded query string, passed through as is.
// path must already be escaped; it is appended to the base URL without
// resolving dot segments.
func (f *Forwarder) GetRaw(ctx context.Context, path, rawQuery string, dst any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint, err := url.Parse(f.baseURL.String() + path)
	if err != nil {
		return fmt.Errorf("%s: build url for %s: %w", f.name, path, err)
	}
	endpoint.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	for k, v := range f.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if f.headerFunc != nil {
		f.headerFunc(req.Header)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(logging.HeaderRequestID, id)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.RecordUpstream(f.name, metrics.OutcomeTransport, time.Since(start))
		return fmt.Errorf("%s: GET %s: %w", f.name, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.RecordUpstream(f.name, metrics.OutcomeStatus, time.Since(start))
		return &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	body, err := io.ReadAll(resp.Body)
	metrics.RecordUpstream(f.name, metrics.OutcomeSuccess, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", f.name, err)
	}
	if dst == nil {
		return nil
	}
	if raw, ok := dst.(*[]byte); ok {
		*raw = body
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", f.name, err)
	}
	return nil
}

// AsStatus reports the upstream status carried by err, if any.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
