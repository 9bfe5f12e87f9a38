// Package ingest turns tab-separated log files into event records.
package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"eventlog/internal/models"
	"eventlog/internal/query"
)

// ErrBadLine is wrapped by every ParseLine error.
var ErrBadLine = errors.New("bad log line")

const (
	colIP = iota
	colUser
	colDate
	colEvent
)

// ParseLine decodes one log line. Two layouts are accepted:
//
//	ip \t user \t date \t event[ task] \t status
//	ip \t user \t date \t event \t task \t status
//
// Only SOLVE_TASK and DONE_TASK carry a task id.
func ParseLine(line string) (models.Record, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")

	var eventCol, taskCol, statusCol string
	switch len(cols) {
	case 5:
		eventCol, statusCol = cols[colEvent], cols[4]
		if name, task, ok := strings.Cut(strings.TrimSpace(eventCol), " "); ok {
			eventCol, taskCol = name, task
		}
	case 6:
		eventCol, taskCol, statusCol = cols[colEvent], cols[4], cols[5]
	default:
		return models.Record{}, fmt.Errorf("%w: expected 5 or 6 tab-separated columns, got %d", ErrBadLine, len(cols))
	}

	date, err := query.ParseDate(cols[colDate])
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBadLine, err)
	}
	event, err := models.ParseEvent(strings.TrimSpace(eventCol))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBadLine, err)
	}
	status, err := models.ParseStatus(strings.TrimSpace(statusCol))
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBadLine, err)
	}

	task := models.NoTask
	if taskCol = strings.TrimSpace(taskCol); taskCol != "" {
		id, err := strconv.Atoi(taskCol)
		if err != nil {
			return models.Record{}, fmt.Errorf("%w: task id %q: %w", ErrBadLine, taskCol, err)
		}
		task = models.TaskID(id)
	}

	rec, err := models.NewRecord(cols[colIP], cols[colUser], date, event, task, status)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBadLine, err)
	}
	return rec, nil
}
