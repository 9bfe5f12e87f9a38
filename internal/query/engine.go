// Package query implements the event log query language.
//
// A query names the field to return and optionally one equality filter and
// one date range:
//
//	get ip
//	get ip for user = "Amigo"
//	get ip for user = "Amigo" and date between "11.12.2013 0:00:00" and "03.01.2014 23:59:59"
//
// Execution is Tokenize, Compile, then Plan.Run over the record source. No
// step keeps state between calls, so one Engine serves concurrent queries as
// long as its source is read-only.
package query

import (
	"errors"
	"iter"
	"strings"

	"eventlog/internal/models"
)

// Source is a read-only record collection.
type Source interface {
	All() iter.Seq[models.Record]
}

// Engine executes queries against a single source.
type Engine struct {
	src Source
}

// NewEngine returns an engine over src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Execute runs query and returns the distinct values of the requested field.
// Errors wrap ErrMalformedQuery, ErrUnknownField or ErrLiteralParse.
func (e *Engine) Execute(query string) (ValueSet, error) {
	plan, err := Prepare(query)
	if err != nil {
		return ValueSet{}, err
	}
	return plan.Run(e.src.All()), nil
}

// Prepare tokenizes and compiles query without touching any records.
func Prepare(query string) (Plan, error) {
	pq, err := Tokenize(query)
	if err != nil {
		return Plan{}, err
	}
	plan, err := Compile(pq)
	if err != nil {
		kind := kindError(err)
		return Plan{}, &QueryError{
			Query:   query,
			Message: strings.TrimPrefix(err.Error(), kind.Error()+": "),
			Err:     kind,
		}
	}
	return plan, nil
}

// kindError picks the error kind wrapped by err.
func kindError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownField):
		return ErrUnknownField
	case errors.Is(err, ErrLiteralParse):
		return ErrLiteralParse
	default:
		return ErrMalformedQuery
	}
}
