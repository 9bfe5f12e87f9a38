package service

import (
	"context"
	"fmt"
	"time"

	"eventlog/internal/ingest"
	"eventlog/internal/logger"
	"eventlog/internal/models"
	"eventlog/internal/repository"
	"eventlog/internal/store"
)

// archiveSource is recorded as the status source when records come from SQLite.
const archiveSource = "archive"

// Publisher receives each freshly built store.
type Publisher interface {
	Publish(st *store.Store)
}

// LoaderService builds the record store and keeps the ingest status row in
// step with it.
type LoaderService struct {
	cfg        LoadConfig
	recordRepo repository.RecordRepo
	statusRepo repository.StatusRepo
	pub        Publisher
	log        *logger.Logger
}

func NewLoaderService(cfg LoadConfig, recordRepo repository.RecordRepo, statusRepo repository.StatusRepo, pub Publisher, log *logger.Logger) *LoaderService {
	return &LoaderService{cfg: cfg, recordRepo: recordRepo, statusRepo: statusRepo, pub: pub, log: log}
}

// Reload reads every record from the configured source, publishes a new
// store and saves the ingest status. The previous store stays published if
// reading fails.
func (s *LoaderService) Reload(ctx context.Context) (models.IngestStatus, error) {
	var (
		records []models.Record
		st      models.IngestStatus
	)
	if s.cfg.ArchiveEnabled {
		recs, err := s.recordRepo.LoadAll(ctx)
		if err != nil {
			return models.IngestStatus{}, fmt.Errorf("load archive: %w", err)
		}
		records = recs
		st = models.IngestStatus{Source: archiveSource, Records: len(recs), LoadedAt: time.Now().UTC()}
	} else {
		recs, rep, err := ingest.LoadDir(ctx, s.ingestOptions())
		if err != nil {
			return models.IngestStatus{}, fmt.Errorf("load %s: %w", s.cfg.Dir, err)
		}
		records = recs
		st = statusFromReport(s.cfg.Dir, rep)
	}

	b := store.NewBuilder(len(records))
	if err := b.Add(records...); err != nil {
		return models.IngestStatus{}, err
	}
	s.pub.Publish(b.Build())

	st.ID = 1
	if err := s.statusRepo.Save(ctx, st); err != nil && s.log != nil {
		s.log.Warnw("ingest_status_save_failed", "error", err)
	}
	if s.log != nil {
		s.log.Infow("store_published", "source", st.Source, "records", st.Records)
	}
	return st, nil
}

// Import copies the log directory into the SQLite archive, replacing what
// was there.
func (s *LoaderService) Import(ctx context.Context) (models.IngestStatus, error) {
	recs, rep, err := ingest.LoadDir(ctx, s.ingestOptions())
	if err != nil {
		return models.IngestStatus{}, fmt.Errorf("load %s: %w", s.cfg.Dir, err)
	}
	n, err := s.recordRepo.ReplaceAll(ctx, recs)
	if err != nil {
		return models.IngestStatus{}, err
	}

	st := statusFromReport(s.cfg.Dir, rep)
	st.ID = 1
	st.Records = n
	if err := s.statusRepo.Save(ctx, st); err != nil {
		return models.IngestStatus{}, fmt.Errorf("save ingest status: %w", err)
	}
	if s.log != nil {
		s.log.Infow("archive_imported", "dir", s.cfg.Dir, "records", n, "skipped_lines", st.SkippedLines)
	}
	return st, nil
}

func (s *LoaderService) ingestOptions() ingest.Options {
	return ingest.Options{
		Dir:     s.cfg.Dir,
		Pattern: s.cfg.Pattern,
		Workers: s.cfg.Workers,
		Logger:  s.log,
	}
}

func statusFromReport(dir string, rep ingest.Report) models.IngestStatus {
	return models.IngestStatus{
		Source:       dir,
		Files:        rep.Files,
		Records:      rep.Records,
		SkippedLines: rep.SkippedLines,
		LoadedAt:     rep.LoadedAt,
	}
}
