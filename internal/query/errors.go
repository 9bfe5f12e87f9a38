package query

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Tokenize, Compile and Engine.Execute
// wraps exactly one of these.
var (
	ErrMalformedQuery = errors.New("malformed query")
	ErrUnknownField   = errors.New("unknown field")
	ErrLiteralParse   = errors.New("cannot parse literal")
)

// QueryError describes why a query could not be interpreted.
type QueryError struct {
	Query   string // the query as given
	Message string // human-readable detail
	Err     error  // one of the error kinds above (for errors.Is)
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Kind returns a stable snake_case name for the error kind.
func (e *QueryError) Kind() string {
	return KindOf(e.Err)
}

// KindOf names the error kind wrapped by err, or "" if err is not a query error.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrMalformedQuery):
		return "malformed_query"
	case errors.Is(err, ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, ErrLiteralParse):
		return "literal_parse"
	default:
		return ""
	}
}

func newQueryError(query string, kind error, msgFmt string, args ...any) *QueryError {
	return &QueryError{
		Query:   query,
		Message: fmt.Sprintf(msgFmt, args...),
		Err:     kind,
	}
}
