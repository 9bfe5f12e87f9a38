package service

import (
	"context"
	"errors"
	"sync/atomic"

	"eventlog/internal/logger"
	"eventlog/internal/query"
	"eventlog/internal/store"
)

// ErrNotLoaded is returned by queries issued before the first load finished.
var ErrNotLoaded = errors.New("no records loaded yet")

// QueryService runs queries against the most recently published store.
// Publishing swaps the store atomically; running queries keep the snapshot
// they started with.
type QueryService struct {
	current atomic.Pointer[store.Store]
	log     *logger.Logger
}

func NewQueryService(log *logger.Logger) *QueryService {
	return &QueryService{log: log}
}

// Publish makes st the store seen by subsequent queries.
func (s *QueryService) Publish(st *store.Store) {
	s.current.Store(st)
}

// Loaded reports whether a store has been published.
func (s *QueryService) Loaded() bool {
	return s.current.Load() != nil
}

func (s *QueryService) snapshot() (*store.Store, error) {
	st := s.current.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st, nil
}

// Execute compiles q and runs it. Query errors are reported even when no
// store is loaded yet.
func (s *QueryService) Execute(ctx context.Context, q string) (query.ValueSet, error) {
	if err := ctx.Err(); err != nil {
		return query.ValueSet{}, err
	}
	plan, err := query.Prepare(q)
	if err != nil {
		if s.log != nil {
			s.log.Debugw("query_failed", "query", q, "kind", query.KindOf(err), "error", err)
		}
		return query.ValueSet{}, err
	}
	st, err := s.snapshot()
	if err != nil {
		return query.ValueSet{}, err
	}
	return plan.Run(st.All()), nil
}

// Accessors returns the typed query API over the current snapshot.
func (s *QueryService) Accessors() (*query.Accessors, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return query.NewAccessors(st), nil
}
