package service

import (
	"context"
	"sync"
	"time"

	"eventlog/internal/models"
	"eventlog/internal/store"
)

// statusRepoStub satisfies repository.StatusRepo.
type statusRepoStub struct {
	loadResp models.IngestStatus
	loadErr  error
	saveErr  error
	saves    []models.IngestStatus
}

func (s *statusRepoStub) Load(ctx context.Context) (models.IngestStatus, error) {
	return s.loadResp, s.loadErr
}

func (s *statusRepoStub) Save(ctx context.Context, st models.IngestStatus) error {
	s.saves = append(s.saves, st)
	return s.saveErr
}

// recordRepoStub satisfies repository.RecordRepo.
type recordRepoStub struct {
	loadResp   []models.Record
	loadErr    error
	replaceErr error
	replaced   []models.Record
}

func (r *recordRepoStub) ReplaceAll(ctx context.Context, records []models.Record) (int, error) {
	if r.replaceErr != nil {
		return 0, r.replaceErr
	}
	r.replaced = records
	return len(records), nil
}

func (r *recordRepoStub) LoadAll(ctx context.Context) ([]models.Record, error) {
	return r.loadResp, r.loadErr
}

// publisherStub records published stores.
type publisherStub struct {
	published []*store.Store
}

func (p *publisherStub) Publish(st *store.Store) {
	p.published = append(p.published, st)
}

// countingReloader counts Reload calls.
type countingReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingReloader) Reload(ctx context.Context) (models.IngestStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return models.IngestStatus{}, c.err
}

func (c *countingReloader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func day(d, m, y int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func sampleStore() *store.Store {
	return store.New([]models.Record{
		{IP: "1.1.1.1", User: "Eduard", Date: day(12, 12, 2013), Event: models.EventLogin, Status: models.StatusOK},
		{IP: "2.2.2.2", User: "Eduard", Date: day(5, 1, 2014), Event: models.EventSolveTask, Task: models.TaskID(18), Status: models.StatusFailed},
		{IP: "3.3.3.3", User: "Amigo", Date: day(6, 1, 2014), Event: models.EventDoneTask, Task: models.TaskID(18), Status: models.StatusOK},
		{IP: "3.3.3.3", User: "Amigo", Date: day(7, 1, 2014), Event: models.EventSolveTask, Task: models.TaskID(18), Status: models.StatusError},
	})
}
