package query

import (
	"iter"
	"slices"

	"eventlog/internal/models"
)

// Plan is a compiled query: the projected field plus up to two predicates.
type Plan struct {
	Output   FieldName
	Equality *Equality // nil for a zero-predicate query
	Range    *Range    // nil when no date clause was given
}

// Equality is the field = value filter with its literal already typed.
type Equality struct {
	Field  Descriptor
	Target Value
}

// Compile resolves the field tokens of pq and parses its literals.
// Unknown fields are reported before literal errors; the output field first.
// Errors wrap ErrUnknownField or ErrLiteralParse.
func Compile(pq ParsedQuery) (Plan, error) {
	out, err := ParseFieldName(pq.Output)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Output: out}
	if !pq.HasFilter() {
		return plan, nil
	}

	d, err := Resolve(pq.FilterField)
	if err != nil {
		return Plan{}, err
	}
	target, err := ParseLiteral(d, pq.FilterValue)
	if err != nil {
		return Plan{}, err
	}
	plan.Equality = &Equality{Field: d, Target: target}

	if pq.HasRange {
		rng, err := parseRange(pq.After, pq.Before)
		if err != nil {
			return Plan{}, err
		}
		plan.Range = &rng
	}
	return plan, nil
}

// parseRange parses the bound literals; an empty literal leaves the bound open.
func parseRange(after, before string) (Range, error) {
	var rng Range
	dateField := Describe(FieldDate)
	if after != "" {
		v, err := ParseLiteral(dateField, after)
		if err != nil {
			return Range{}, err
		}
		rng.After = Bound(v.Time())
	}
	if before != "" {
		v, err := ParseLiteral(dateField, before)
		if err != nil {
			return Range{}, err
		}
		rng.Before = Bound(v.Time())
	}
	return rng, nil
}

// Predicates returns the plan's filters in evaluation order.
func (p Plan) Predicates() []Predicate {
	var preds []Predicate
	if p.Equality != nil {
		preds = append(preds, Equals(p.Equality.Field, p.Equality.Target))
	}
	if p.Range != nil {
		preds = append(preds, Within(*p.Range))
	}
	return preds
}

// Run filters records and projects the output field.
func (p Plan) Run(records iter.Seq[models.Record]) ValueSet {
	preds := p.Predicates()
	if len(preds) == 0 {
		return Project(records, p.Output)
	}
	return Project(slices.Values(Where(records, preds...)), p.Output)
}
