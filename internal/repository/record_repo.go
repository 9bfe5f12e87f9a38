package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventlog/internal/models"

	"github.com/google/uuid"
)

// RecordSQLite archives decoded records so a service can start without
// re-reading the log directory.
type RecordSQLite struct {
	db *sql.DB
}

func NewRecordSQLite(db *sql.DB) *RecordSQLite { return &RecordSQLite{db: db} }

const (
	deleteRecordsSQL = `DELETE FROM event_records`

	insertRecordSQL = `
		INSERT INTO event_records (id, ip, username, occurred_at, event, task, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectRecordsSQL = `SELECT ip, username, occurred_at, event, task, status FROM event_records ORDER BY occurred_at ASC`
)

// ReplaceAll swaps the archive contents for records in one transaction and
// returns the number of rows written.
func (r *RecordSQLite) ReplaceAll(ctx context.Context, records []models.Record) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteRecordsSQL); err != nil {
		return 0, fmt.Errorf("clear archive: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var task sql.NullInt64
		if id, ok := rec.Task.Get(); ok {
			task = sql.NullInt64{Int64: int64(id), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			rec.IP,
			rec.User,
			rec.Date.UTC(),
			string(rec.Event),
			task,
			string(rec.Status),
		); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive transaction: %w", err)
	}
	return len(records), nil
}

// LoadAll returns every archived record, oldest first. Rows that no longer
// form a valid record are reported as errors.
func (r *RecordSQLite) LoadAll(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRecordsSQL)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	out := make([]models.Record, 0, 64)
	for rows.Next() {
		var (
			ip, user, event, status string
			at                      time.Time
			task                    sql.NullInt64
		)
		if err := rows.Scan(&ip, &user, &at, &event, &task, &status); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		t := models.NoTask
		if task.Valid {
			t = models.TaskID(int(task.Int64))
		}
		rec, err := models.NewRecord(ip, user, at.UTC(), models.Event(event), t, models.Status(status))
		if err != nil {
			return nil, fmt.Errorf("archived record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
