package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrTaskRequired   = errors.New("event requires a task id")
	ErrTaskNotAllowed = errors.New("event does not carry a task id")
)

// Task is the optional task id of SOLVE_TASK and DONE_TASK events.
// The zero value is NoTask, which is distinct from task id 0.
type Task struct {
	id    int
	valid bool
}

// NoTask marks events without a task payload.
var NoTask = Task{}

// TaskID wraps a task id.
func TaskID(id int) Task {
	return Task{id: id, valid: true}
}

// Get returns the task id and whether one is present.
func (t Task) Get() (int, bool) {
	return t.id, t.valid
}

// Is reports whether t holds exactly the task id.
func (t Task) Is(id int) bool {
	return t.valid && t.id == id
}

// MarshalJSON encodes NoTask as null.
func (t Task) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(t.id)), nil
}

func (t Task) String() string {
	if !t.valid {
		return "none"
	}
	return strconv.Itoa(t.id)
}

// Record is a single decoded log line. Records are values and are never
// modified after construction.
type Record struct {
	IP     string    `json:"ip"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
	Event  Event     `json:"event"`
	Task   Task      `json:"task"`
	Status Status    `json:"status"`
}

// NewRecord validates the event/task pairing and builds a Record.
func NewRecord(ip, user string, date time.Time, event Event, task Task, status Status) (Record, error) {
	if _, err := ParseEvent(string(event)); err != nil {
		return Record{}, err
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return Record{}, err
	}
	_, hasTask := task.Get()
	switch {
	case event.HasTask() && !hasTask:
		return Record{}, fmt.Errorf("%w: %s", ErrTaskRequired, event)
	case !event.HasTask() && hasTask:
		return Record{}, fmt.Errorf("%w: %s", ErrTaskNotAllowed, event)
	}
	return Record{
		IP:     ip,
		User:   user,
		Date:   date,
		Event:  event,
		Task:   task,
		Status: status,
	}, nil
}

// Between reports whether the record falls strictly inside (after, before).
// A nil after means the Unix epoch and a nil before means no upper bound.
func (r Record) Between(after, before *time.Time) bool {
	lower := time.Unix(0, 0)
	if after != nil {
		lower = *after
	}
	if !r.Date.After(lower) {
		return false
	}
	return before == nil || r.Date.Before(*before)
}
