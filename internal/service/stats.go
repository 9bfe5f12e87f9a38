package service

import (
	"context"
	"errors"
	"time"

	"eventlog/internal/query"
)

// AccessorSource hands out the typed query API over the current records.
type AccessorSource interface {
	Accessors() (*query.Accessors, error)
}

type StatsService struct {
	src AccessorSource
}

func NewStatsService(src AccessorSource) *StatsService {
	return &StatsService{src: src}
}

// ErrInvalidTimeRange rejects a range whose lower bound is not before its upper bound.
var ErrInvalidTimeRange = errors.New("invalid time range: after must be before before")

// normalizeToUTC returns a UTC copy of t, keeping nil as nil.
func normalizeToUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return query.Bound(t.UTC())
}

// toRange validates f and converts it to a query range.
func toRange(f RangeFilter) (query.Range, error) {
	rng := query.Range{After: normalizeToUTC(f.After), Before: normalizeToUTC(f.Before)}
	if rng.After != nil && rng.Before != nil && !rng.After.Before(*rng.Before) {
		return query.Range{}, ErrInvalidTimeRange
	}
	return rng, nil
}

func (s *StatsService) prepare(ctx context.Context, f RangeFilter) (*query.Accessors, query.Range, error) {
	if err := ctx.Err(); err != nil {
		return nil, query.Range{}, err
	}
	rng, err := toRange(f)
	if err != nil {
		return nil, query.Range{}, err
	}
	a, err := s.src.Accessors()
	if err != nil {
		return nil, query.Range{}, err
	}
	return a, rng, nil
}

// Stats summarizes the records inside f.
func (s *StatsService) Stats(ctx context.Context, f RangeFilter) (Stats, error) {
	a, rng, err := s.prepare(ctx, f)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		UniqueIPs:    a.NumberOfUniqueIPs(rng),
		Users:        a.NumberOfUsers(rng),
		EventKinds:   a.NumberOfAllEvents(rng),
		LoggedUsers:  a.LoggedUsers(rng),
		FailedEvents: a.FailedEvents(rng),
		ErrorEvents:  a.ErrorEvents(rng),
	}, nil
}

// UserIPs lists the addresses user acted from inside f.
func (s *StatsService) UserIPs(ctx context.Context, user string, f RangeFilter) ([]string, error) {
	a, rng, err := s.prepare(ctx, f)
	if err != nil {
		return nil, err
	}
	return a.IPsForUser(user, rng), nil
}

// SolvedTasks maps task id to its number of SOLVE_TASK records inside f.
func (s *StatsService) SolvedTasks(ctx context.Context, f RangeFilter) (map[int]int, error) {
	a, rng, err := s.prepare(ctx, f)
	if err != nil {
		return nil, err
	}
	return a.AllSolvedTasksAndTheirNumber(rng), nil
}

// DoneTasks maps task id to its number of DONE_TASK records inside f.
func (s *StatsService) DoneTasks(ctx context.Context, f RangeFilter) (map[int]int, error) {
	a, rng, err := s.prepare(ctx, f)
	if err != nil {
		return nil, err
	}
	return a.AllDoneTasksAndTheirNumber(rng), nil
}
