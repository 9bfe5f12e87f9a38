package service

import (
	"context"
	"time"

	"eventlog/internal/logger"
	"eventlog/internal/models"
)

// Reloader rebuilds the published store.
type Reloader interface {
	Reload(ctx context.Context) (models.IngestStatus, error)
}

// RefresherService reloads the log source on a fixed interval so appended
// log lines become queryable without a restart.
type RefresherService struct {
	loader Reloader
	log    *logger.Logger
}

func NewRefresherService(loader Reloader, log *logger.Logger) *RefresherService {
	return &RefresherService{loader: loader, log: log}
}

// Run ticks at the given interval until ctx is canceled. A non-positive
// interval disables refreshing.
func (s *RefresherService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.loader.Reload(ctx); err != nil && ctx.Err() == nil && s.log != nil {
				s.log.Warnw("reload_failed", "error", err)
			}
		}
	}
}
