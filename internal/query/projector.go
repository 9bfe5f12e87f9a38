package query

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"eventlog/internal/models"
)

// ValueSet is an unordered set of projected values of a single field.
type ValueSet struct {
	field FieldName
	items map[valueKey]Value
}

// NewValueSet returns an empty set for field.
func NewValueSet(field FieldName) ValueSet {
	return ValueSet{field: field, items: make(map[valueKey]Value)}
}

// Field is the projected field.
func (s ValueSet) Field() FieldName { return s.field }

// Len returns the number of distinct values.
func (s ValueSet) Len() int { return len(s.items) }

// Add inserts v; duplicates collapse into one entry.
func (s ValueSet) Add(v Value) {
	s.items[v.key()] = v
}

// Contains reports membership by structural equality.
func (s ValueSet) Contains(v Value) bool {
	_, ok := s.items[v.key()]
	return ok
}

// Values returns the members in a stable order: instants chronologically,
// everything else lexically.
func (s ValueSet) Values() []Value {
	out := make([]Value, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v)
	}
	slices.SortFunc(out, compareValues)
	return out
}

// Strings renders Values with Value.String.
func (s ValueSet) Strings() []string {
	vals := s.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func (s ValueSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func compareValues(a, b Value) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	if a.kind == KindInstant {
		return a.at.Compare(b.at)
	}
	return strings.Compare(a.str, b.str)
}

// Project maps records through the field accessor into a deduplicated set.
func Project(records iter.Seq[models.Record], field FieldName) ValueSet {
	d := Describe(field)
	out := NewValueSet(field)
	for r := range records {
		out.Add(d.Access(r))
	}
	return out
}
