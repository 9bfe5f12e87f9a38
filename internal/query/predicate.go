package query

import (
	"fmt"
	"iter"
	"time"

	"eventlog/internal/models"
)

// Predicate decides whether a record survives filtering. Predicates are pure.
type Predicate func(models.Record) bool

// Range is an open date interval. A nil After means the Unix epoch and a
// nil Before means no upper bound; both ends are exclusive. Any instant,
// including the zero time, is a real bound once set.
type Range struct {
	After  *time.Time
	Before *time.Time
}

// Bound returns a range end at t.
func Bound(t time.Time) *time.Time { return &t }

// Between is the range with both ends set.
func Between(after, before time.Time) Range {
	return Range{After: Bound(after), Before: Bound(before)}
}

// Contains reports whether t lies strictly between the bounds.
func (r Range) Contains(t time.Time) bool {
	return models.Record{Date: t}.Between(r.After, r.Before)
}

// Equals keeps records whose field value equals target.
func Equals(d Descriptor, target Value) Predicate {
	return func(r models.Record) bool {
		return d.Access(r).Equal(target)
	}
}

// Within keeps records dated strictly inside rng.
func Within(rng Range) Predicate {
	return func(r models.Record) bool {
		return rng.Contains(r.Date)
	}
}

// EventIs keeps records of the given event.
func EventIs(e models.Event) Predicate {
	return Equals(Describe(FieldEvent), EventValue(e))
}

// StatusIs keeps records with the given status.
func StatusIs(s models.Status) Predicate {
	return Equals(Describe(FieldStatus), StatusValue(s))
}

// TaskIs keeps records carrying exactly the task id.
func TaskIs(id int) Predicate {
	return func(r models.Record) bool {
		return r.Task.Is(id)
	}
}

// And composes predicates by logical conjunction. And() accepts everything.
func And(preds ...Predicate) Predicate {
	return func(r models.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Where returns the records accepted by every predicate.
func Where(records iter.Seq[models.Record], preds ...Predicate) []models.Record {
	keep := And(preds...)
	var out []models.Record
	for r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies the equality filter field = literal and, when rng is non-nil,
// the date range. The literal is parsed once before scanning so a bad value is
// reported even when there are no records.
func Filter(records iter.Seq[models.Record], field FieldName, literal string, rng *Range) ([]models.Record, error) {
	if field < 0 || field >= numFields {
		return nil, fmt.Errorf("%w: field index %d", ErrUnknownField, int(field))
	}
	d := Describe(field)
	target, err := ParseLiteral(d, literal)
	if err != nil {
		return nil, err
	}
	preds := []Predicate{Equals(d, target)}
	if rng != nil {
		preds = append(preds, Within(*rng))
	}
	return Where(records, preds...), nil
}
