package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventlog/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	ingestStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO ingest_status (id, source, files, records, skipped_lines, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source=excluded.source,
			files=excluded.files,
			records=excluded.records,
			skipped_lines=excluded.skipped_lines,
			loaded_at=excluded.loaded_at
	`

	selectStatusSQL = `
		SELECT id, source, files, records, skipped_lines, loaded_at
		FROM ingest_status WHERE id=?
	`
)

// Save updates or inserts the ingest_status row (id always 1).
func (r *StatusSQLite) Save(ctx context.Context, st models.IngestStatus) error {
	loadedAt := st.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	} else {
		loadedAt = loadedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		ingestStatusRowID,
		st.Source,
		st.Files,
		st.Records,
		st.SkippedLines,
		loadedAt,
	)
	return err
}

// Load fetches the ingest_status row. A zero status means nothing was loaded yet.
func (r *StatusSQLite) Load(ctx context.Context) (models.IngestStatus, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, ingestStatusRowID)

	var st models.IngestStatus
	if err := row.Scan(
		&st.ID,
		&st.Source,
		&st.Files,
		&st.Records,
		&st.SkippedLines,
		&st.LoadedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.IngestStatus{}, nil
		}
		return models.IngestStatus{}, err
	}
	st.LoadedAt = st.LoadedAt.UTC()
	return st, nil
}
