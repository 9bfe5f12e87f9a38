package repository

import (
	"context"
	"database/sql"

	"eventlog/internal/models"
)

// Authorization stores API accounts.
type Authorization interface {
	// Create fails with ErrUserExists when the username is taken.
	Create(ctx context.Context, username, hash string) (int, error)
	// GetByUsername fails with ErrUserNotFound for an unknown username.
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// StatusRepo persists the outcome of the latest ingestion.
type StatusRepo interface {
	Save(ctx context.Context, st models.IngestStatus) error
	Load(ctx context.Context) (models.IngestStatus, error)
}

// RecordRepo is the SQLite record archive.
type RecordRepo interface {
	ReplaceAll(ctx context.Context, records []models.Record) (int, error)
	LoadAll(ctx context.Context) ([]models.Record, error)
}

type Repository struct {
	StatusRepo StatusRepo
	RecordRepo RecordRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatusRepo: NewStatusSQLite(db),
		RecordRepo: NewRecordSQLite(db),
		Auth:       NewUserSQLite(db),
	}
}
