// Package query turns raw listing parameters into a validated MovieQuery.
//
// The raw strings are checked with go-playground/validator first, using the
// isInt and isBoolean constraints registered here, and only then coerced.
// Every failure is reported as a node of the apierror failure tree so the
// envelope carries per-field detail.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Clark-Hu/movie-database/internal/apierror"
	"github.com/Clark-Hu/movie-database/internal/domain"
)

// MsgQueryRequired is the message returned when a search has no term.
const MsgQueryRequired = "Search query is required"

var allowedParams = map[string]struct{}{
	"page":         {},
	"includeAdult": {},
	"language":     {},
	"query":        {},
}

// rawParams holds the trimmed coercible parameters before conversion. Empty
// values count as absent.
type rawParams struct {
	Page         string `query:"page" validate:"omitempty,isInt"`
	IncludeAdult string `query:"includeAdult" validate:"omitempty,isBoolean"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("isInt", func(fl validator.FieldLevel) bool {
			_, err := strconv.Atoi(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("isBoolean", func(fl validator.FieldLevel) bool {
			_, err := strconv.ParseBool(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Normalize coerces values into a MovieQuery, applying defaults for absent
// parameters. Any failure is returned as an *apierror.Error with status 422.
func Normalize(values url.Values) (domain.MovieQuery, error) {
	q := domain.NewMovieQuery()
	var failures []apierror.FieldFailure

	for _, name := range sortedKeys(values) {
		if _, ok := allowedParams[name]; !ok {
			failures = append(failures, failure(name, "whitelistValidation", fmt.Sprintf("property %s should not exist", name)))
		}
	}

	raw := rawParams{
		Page:         strings.TrimSpace(first(values, "page")),
		IncludeAdult: strings.TrimSpace(first(values, "includeAdult")),
	}
	failures = append(failures, paramFailures(raw)...)
	if len(failures) > 0 {
		return domain.MovieQuery{}, apierror.Validation(failures)
	}

	// Both values passed validation, so conversion cannot fail.
	if raw.Page != "" {
		q.Page, _ = strconv.Atoi(raw.Page)
	}
	if raw.IncludeAdult != "" {
		q.IncludeAdult, _ = strconv.ParseBool(raw.IncludeAdult)
	}

	if lang := first(values, "language"); lang != "" {
		q.Language = lang
	}
	if term, ok := lookup(values, "query"); ok {
		q.Query = term
	}

	return q, nil
}

// RequireQuery fails with a 400 when the search term is absent or empty.
func RequireQuery(q domain.MovieQuery) error {
	if q.Query == "" {
		return apierror.BadRequest(MsgQueryRequired)
	}
	return nil
}

// paramFailures runs the validator over raw and converts each field error
// into a failure node named after the query parameter.
func paramFailures(raw rawParams) []apierror.FieldFailure {
	err := getValidator().Struct(raw)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []apierror.FieldFailure{failure("query", "unknown", err.Error())}
	}

	out := make([]apierror.FieldFailure, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, failure(fieldErr.Field(), fieldErr.Tag(), translate(fieldErr)))
	}
	return out
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "isInt":
		return fmt.Sprintf("%s must be an integer number", fe.Field())
	case "isBoolean":
		return fmt.Sprintf("%s must be a boolean value", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func failure(property, constraint, message string) apierror.FieldFailure {
	return apierror.FieldFailure{
		Property:    property,
		Constraints: []apierror.Constraint{{Name: constraint, Message: message}},
	}
}

func first(values url.Values, key string) string {
	v, _ := lookup(values, key)
	return v
}

func lookup(values url.Values, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func sortedKeys(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
