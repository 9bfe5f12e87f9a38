package models

import (
	"errors"
	"fmt"
)

// Event is the kind of action recorded in a log line.
type Event string

const (
	EventLogin          Event = "LOGIN"
	EventDownloadPlugin Event = "DOWNLOAD_PLUGIN"
	EventWriteMessage   Event = "WRITE_MESSAGE"
	EventSolveTask      Event = "SOLVE_TASK"
	EventDoneTask       Event = "DONE_TASK"
)

// Status is the outcome of an event.
type Status string

const (
	StatusOK     Status = "OK"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownStatus = errors.New("unknown status")
)

// Events lists every event in declaration order.
func Events() []Event {
	return []Event{EventLogin, EventDownloadPlugin, EventWriteMessage, EventSolveTask, EventDoneTask}
}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusOK, StatusFailed, StatusError}
}

// ParseEvent returns the event named exactly s.
func ParseEvent(s string) (Event, error) {
	for _, e := range Events() {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// ParseStatus returns the status named exactly s.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// HasTask reports whether records of this event carry a task id.
func (e Event) HasTask() bool {
	return e == EventSolveTask || e == EventDoneTask
}
