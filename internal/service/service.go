package service

import (
	"context"
	"time"

	"eventlog/internal/logger"
	"eventlog/internal/models"
	"eventlog/internal/query"
	"eventlog/internal/repository"
)

// Authorization guards /api/v1 with bearer tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Query runs query-language strings against the published records.
type Query interface {
	Execute(ctx context.Context, q string) (query.ValueSet, error)
	Accessors() (*query.Accessors, error)
	Loaded() bool
}

// Statistics exposes the typed, date-bounded questions.
type Statistics interface {
	Stats(ctx context.Context, f RangeFilter) (Stats, error)
	UserIPs(ctx context.Context, user string, f RangeFilter) ([]string, error)
	SolvedTasks(ctx context.Context, f RangeFilter) (map[int]int, error)
	DoneTasks(ctx context.Context, f RangeFilter) (map[int]int, error)
}

// Status exposes the outcome of the latest load.
type Status interface {
	GetStatus(ctx context.Context) (models.IngestStatus, error)
}

// Loader builds the record store from logs or the archive.
type Loader interface {
	Reload(ctx context.Context) (models.IngestStatus, error)
	Import(ctx context.Context) (models.IngestStatus, error)
}

// Refresher reloads in the background. Stop it via context cancellation.
type Refresher interface {
	Run(ctx context.Context, tick time.Duration)
}

// Config carries the service settings read from configuration.
type Config struct {
	Load LoadConfig
	Auth AuthConfig
}

type Service struct {
	Query
	Statistics
	Status
	Loader
	Refresher
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	queries := NewQueryService(log)
	loader := NewLoaderService(cfg.Load, repos.RecordRepo, repos.StatusRepo, queries, log)
	return &Service{
		Query:         queries,
		Statistics:    NewStatsService(queries),
		Status:        NewStatusService(repos.StatusRepo),
		Loader:        loader,
		Refresher:     NewRefresherService(loader, log),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
