package service

import (
	"context"

	"eventlog/internal/models"
	"eventlog/internal/repository"
)

type StatusService struct {
	statusRepo repository.StatusRepo
}

func NewStatusService(statusRepo repository.StatusRepo) *StatusService {
	return &StatusService{statusRepo: statusRepo}
}

// GetStatus returns the outcome of the latest load. A zero ID means nothing
// has been loaded since the database was created.
func (s *StatusService) GetStatus(ctx context.Context) (models.IngestStatus, error) {
	st, err := s.statusRepo.Load(ctx)
	if err != nil {
		return models.IngestStatus{}, err
	}
	st.LoadedAt = *normalizeToUTC(&st.LoadedAt)
	return st, nil
}
