package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eventlog/internal/models"
)

// FieldName identifies one of the queryable record fields.
type FieldName int

const (
	FieldIP FieldName = iota
	FieldUser
	FieldDate
	FieldEvent
	FieldStatus

	numFields
)

func (f FieldName) String() string {
	switch f {
	case FieldIP:
		return "ip"
	case FieldUser:
		return "user"
	case FieldDate:
		return "date"
	case FieldEvent:
		return "event"
	case FieldStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Kind is the declared type of a field; it decides how literals are parsed.
type Kind int

const (
	KindString Kind = iota
	KindInstant
	KindEvent
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInstant:
		return "instant"
	case KindEvent:
		return "event"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Value is a field value taken from a record or parsed from a literal.
// Values of the same Kind compare structurally with Equal.
type Value struct {
	kind Kind
	str  string    // string, event and status payload
	at   time.Time // instant payload
}

// StringValue wraps a plain string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// InstantValue wraps a point in time.
func InstantValue(t time.Time) Value { return Value{kind: KindInstant, at: t} }

// EventValue wraps an event variant.
func EventValue(e models.Event) Value { return Value{kind: KindEvent, str: string(e)} }

// StatusValue wraps a status variant.
func StatusValue(s models.Status) Value { return Value{kind: KindStatus, str: string(s)} }

func (v Value) Kind() Kind            { return v.kind }
func (v Value) Time() time.Time       { return v.at }
func (v Value) Event() models.Event   { return models.Event(v.str) }
func (v Value) Status() models.Status { return models.Status(v.str) }

// String renders the value; instants use DisplayLayout.
func (v Value) String() string {
	if v.kind == KindInstant {
		return FormatDate(v.at)
	}
	return v.str
}

// Equal reports structural equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindInstant {
		return v.at.Equal(o.at)
	}
	return v.str == o.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// valueKey is a comparable identity for set membership, consistent with Equal.
type valueKey struct {
	kind Kind
	str  string
	sec  int64
	nsec int
}

func (v Value) key() valueKey {
	k := valueKey{kind: v.kind, str: v.str}
	if v.kind == KindInstant {
		k.sec = v.at.Unix()
		k.nsec = v.at.Nanosecond()
	}
	return k
}

// Descriptor binds a field name to its accessor and declared kind.
type Descriptor struct {
	Name   FieldName
	Kind   Kind
	Access func(models.Record) Value
}

// descriptors is indexed by FieldName; its length pins every field to an entry.
var descriptors = [numFields]Descriptor{
	FieldIP: {
		Name:   FieldIP,
		Kind:   KindString,
		Access: func(r models.Record) Value { return StringValue(r.IP) },
	},
	FieldUser: {
		Name:   FieldUser,
		Kind:   KindString,
		Access: func(r models.Record) Value { return StringValue(r.User) },
	},
	FieldDate: {
		Name:   FieldDate,
		Kind:   KindInstant,
		Access: func(r models.Record) Value { return InstantValue(r.Date) },
	},
	FieldEvent: {
		Name:   FieldEvent,
		Kind:   KindEvent,
		Access: func(r models.Record) Value { return EventValue(r.Event) },
	},
	FieldStatus: {
		Name:   FieldStatus,
		Kind:   KindStatus,
		Access: func(r models.Record) Value { return StatusValue(r.Status) },
	},
}

// ParseFieldName maps a field token to its FieldName. Tokens are case-sensitive.
func ParseFieldName(token string) (FieldName, error) {
	for f := FieldName(0); f < numFields; f++ {
		if f.String() == token {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownField, token, strings.Join(FieldNames(), ", "))
}

// FieldNames lists the recognized field tokens.
func FieldNames() []string {
	names := make([]string, 0, numFields)
	for f := FieldName(0); f < numFields; f++ {
		names = append(names, f.String())
	}
	return names
}

// Describe returns the descriptor of a known field.
func Describe(f FieldName) Descriptor {
	return descriptors[f]
}

// Resolve returns the descriptor for a field token.
func Resolve(token string) (Descriptor, error) {
	f, err := ParseFieldName(token)
	if err != nil {
		return Descriptor{}, err
	}
	return descriptors[f], nil
}

// ParseLiteral converts text to a Value of the descriptor's declared kind.
func ParseLiteral(d Descriptor, text string) (Value, error) {
	switch d.Kind {
	case KindString:
		return StringValue(text), nil
	case KindInstant:
		t, err := ParseDate(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s: %w", ErrLiteralParse, d.Name, err)
		}
		return InstantValue(t), nil
	case KindEvent:
		e, err := models.ParseEvent(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s: %w", ErrLiteralParse, d.Name, err)
		}
		return EventValue(e), nil
	case KindStatus:
		s, err := models.ParseStatus(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s: %w", ErrLiteralParse, d.Name, err)
		}
		return StatusValue(s), nil
	default:
		return Value{}, fmt.Errorf("%w: field %s has undeclared kind %d", ErrLiteralParse, d.Name, int(d.Kind))
	}
}
