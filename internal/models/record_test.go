package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewRecord_TaskPairing(t *testing.T) {
	t.Parallel()

	at := time.Date(2013, 12, 11, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		event   Event
		task    Task
		wantErr error
	}{
		{name: "login without task", event: EventLogin, task: NoTask},
		{name: "solve with task", event: EventSolveTask, task: TaskID(18)},
		{name: "done with task zero", event: EventDoneTask, task: TaskID(0)},
		{name: "solve missing task", event: EventSolveTask, task: NoTask, wantErr: ErrTaskRequired},
		{name: "message with task", event: EventWriteMessage, task: TaskID(3), wantErr: ErrTaskNotAllowed},
		{name: "unknown event", event: Event("JUMP"), task: NoTask, wantErr: ErrUnknownEvent},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRecord("127.0.0.1", "Amigo", at, tc.event, tc.task, StatusOK)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("NewRecord err = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTask_NoneIsNotZero(t *testing.T) {
	t.Parallel()

	if NoTask.Is(0) {
		t.Fatalf("NoTask must not match task id 0")
	}
	if !TaskID(0).Is(0) {
		t.Fatalf("TaskID(0) must match task id 0")
	}
	if NoTask == TaskID(0) {
		t.Fatalf("NoTask and TaskID(0) must differ")
	}

	b, _ := json.Marshal(struct {
		A Task `json:"a"`
		B Task `json:"b"`
	}{A: NoTask, B: TaskID(7)})
	if string(b) != `{"a":null,"b":7}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestRecord_BetweenIsStrict(t *testing.T) {
	t.Parallel()

	after := time.Date(2013, 12, 11, 0, 0, 0, 0, time.UTC)
	before := time.Date(2014, 1, 3, 23, 59, 59, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"equal to after", after, false},
		{"equal to before", before, false},
		{"inside", after.Add(time.Hour), true},
		{"outside", before.Add(time.Hour), false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r := Record{Date: c.at}
			if got := r.Between(&after, &before); got != c.want {
				t.Fatalf("Between(%v) = %v; want %v", c.at, got, c.want)
			}
		})
	}

	open := Record{Date: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !open.Between(nil, nil) {
		t.Fatalf("nil bounds should accept any post-epoch date")
	}
	if (Record{Date: time.Unix(0, 0)}).Between(nil, nil) {
		t.Fatalf("epoch itself is excluded by the default lower bound")
	}
	var zero time.Time
	if open.Between(nil, &zero) {
		t.Fatalf("an explicit zero upper bound must not be treated as open")
	}
}

func TestParseEventAndStatus(t *testing.T) {
	t.Parallel()

	if e, err := ParseEvent("DONE_TASK"); err != nil || e != EventDoneTask {
		t.Fatalf("ParseEvent = %v, %v", e, err)
	}
	if _, err := ParseEvent("done_task"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("event names are case-sensitive, got %v", err)
	}
	if s, err := ParseStatus("FAILED"); err != nil || s != StatusFailed {
		t.Fatalf("ParseStatus = %v, %v", s, err)
	}
	if _, err := ParseStatus("MAYBE"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}
