package query

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/Clark-Hu/movie-database/internal/apierror"
)

func TestNormalizeDefaults(t *testing.T) {
	q, err := Normalize(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 1 || q.IncludeAdult || q.Language != "en-US" || q.Query != "" {
		t.Fatalf("defaults not applied: %+v", q)
	}
}

func TestNormalizeCoercion(t *testing.T) {
	values, _ := url.ParseQuery("page= 3 &includeAdult=true&language=fr-FR&query=The%20Matrix")

	q, err := Normalize(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 3 {
		t.Fatalf("page = %d, want 3", q.Page)
	}
	if !q.IncludeAdult {
		t.Fatalf("includeAdult not parsed")
	}
	if q.Language != "fr-FR" {
		t.Fatalf("language = %q", q.Language)
	}
	if q.Query != "The Matrix" {
		t.Fatalf("query = %q", q.Query)
	}
}

func TestNormalizeAcceptsIntegerPages(t *testing.T) {
	for _, raw := range []string{"1", "2", "10", "500", "007", "0", "-4"} {
		if _, err := Normalize(url.Values{"page": {raw}}); err != nil {
			t.Fatalf("page %q rejected: %v", raw, err)
		}
	}
}

func TestNormalizeEmptyValuesFallBackToDefaults(t *testing.T) {
	values, _ := url.ParseQuery("page=&includeAdult=&language=")
	q, err := Normalize(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 1 || q.IncludeAdult || q.Language != "en-US" {
		t.Fatalf("defaults not applied: %+v", q)
	}
}

func TestNormalizeValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
		wantMsg   string
	}{
		{"non numeric page", "page=abc", "page", "page must be an integer number"},
		{"fractional page", "page=1.5", "page", "page must be an integer number"},
		{"bad boolean", "includeAdult=maybe", "includeAdult", "includeAdult must be a boolean value"},
		{"unknown parameter", "sort=desc", "sort", "property sort should not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.raw)
			_, err := Normalize(values)

			var apiErr *apierror.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("Normalize(%q) error = %v, want *apierror.Error", tt.raw, err)
			}
			if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != apierror.CodeValidationError {
				t.Fatalf("status/code = %d/%s, want 422/VALIDATION_ERROR", apiErr.Status, apiErr.Code)
			}
			if got := apiErr.Fields[tt.wantField]; got != tt.wantMsg {
				t.Fatalf("errors[%s] = %v, want %q", tt.wantField, got, tt.wantMsg)
			}
		})
	}
}

func TestParamFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  rawParams
		want map[string]string
	}{
		{"empty values are absent", rawParams{}, map[string]string{}},
		{"valid values", rawParams{Page: "-5", IncludeAdult: "TRUE"}, map[string]string{}},
		{"fractional page", rawParams{Page: "1.5"}, map[string]string{"page": "isInt"}},
		{"overflowing page", rawParams{Page: "99999999999999999999"}, map[string]string{"page": "isInt"}},
		{"bad boolean", rawParams{IncludeAdult: "yes"}, map[string]string{"includeAdult": "isBoolean"}},
		{"both", rawParams{Page: "x", IncludeAdult: "y"}, map[string]string{"page": "isInt", "includeAdult": "isBoolean"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]string{}
			for _, f := range paramFailures(tt.raw) {
				if len(f.Constraints) != 1 {
					t.Fatalf("failure %s has %d constraints", f.Property, len(f.Constraints))
				}
				got[f.Property] = f.Constraints[0].Name
			}
			if len(got) != len(tt.want) {
				t.Fatalf("failures = %v, want %v", got, tt.want)
			}
			for prop, constraint := range tt.want {
				if got[prop] != constraint {
					t.Fatalf("failures = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNormalizeReportsEveryField(t *testing.T) {
	values, _ := url.ParseQuery("page=x&includeAdult=y")
	_, err := Normalize(values)

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(apiErr.Fields) != 2 {
		t.Fatalf("errors = %#v, want page and includeAdult", apiErr.Fields)
	}
}

func TestRequireQuery(t *testing.T) {
	q, _ := Normalize(url.Values{})
	err := RequireQuery(q)

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("RequireQuery(empty) = %v, want *apierror.Error", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Search query is required" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	q.Query = "Inception"
	if err := RequireQuery(q); err != nil {
		t.Fatalf("RequireQuery(non-empty) = %v", err)
	}
}

func TestValuesOmitsSearchTerm(t *testing.T) {
	q, _ := Normalize(url.Values{"query": {"Heat"}, "page": {"2"}})

	popular := q.Values(false)
	if popular.Has("query") {
		t.Fatalf("popular params must not carry query: %v", popular)
	}
	if popular.Get("page") != "2" || popular.Get("includeAdult") != "false" || popular.Get("language") != "en-US" {
		t.Fatalf("unexpected params: %v", popular)
	}

	search := q.Values(true)
	if search.Get("query") != "Heat" {
		t.Fatalf("search params missing query: %v", search)
	}
}
