package domain

import (
	"net/url"
	"strconv"
)

// Defaults applied by the query normalizer when a parameter is absent.
const (
	DefaultPage     = 1
	DefaultLanguage = "en-US"
)

// MovieQuery carries the paging and filtering options for listing calls.
type MovieQuery struct {
	Page         int    `query:"page"`
	IncludeAdult bool   `query:"includeAdult"`
	Language     string `query:"language"`
	Query        string `query:"query"`
}

// NewMovieQuery returns a query populated with the defaults.
func NewMovieQuery() MovieQuery {
	return MovieQuery{
		Page:     DefaultPage,
		Language: DefaultLanguage,
	}
}

// Values encodes the query as URL parameters. The search term is only
// included when withQuery is set.
func (q MovieQuery) Values(withQuery bool) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("includeAdult", strconv.FormatBool(q.IncludeAdult))
	values.Set("language", q.Language)
	if withQuery && q.Query != "" {
		values.Set("query", q.Query)
	}
	return values
}
