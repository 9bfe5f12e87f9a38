package query

import (
	"strings"
)

// Grammar keywords and the fixed connective text between quoted values.
const (
	kwGet          = "get"
	kwFor          = "for"
	eqSeparator    = " = "
	rangeConnector = " and date between "
	boundConnector = " and "
	quote          = '"'
)

// ParsedQuery is the structural breakdown of a query string. Field tokens are
// not validated here; Compile resolves them.
type ParsedQuery struct {
	Output      string // requested field token
	FilterField string // empty for a zero-predicate query
	FilterValue string
	HasRange    bool
	After       string // exclusive lower bound; empty means unbounded
	Before      string // exclusive upper bound; empty means unbounded
}

// HasFilter reports whether the query carries an equality filter.
func (p ParsedQuery) HasFilter() bool {
	return p.FilterField != ""
}

// literal is one double-quoted value: text without quotes plus the byte span
// [start, end) of the quoted form in the query.
type literal struct {
	text       string
	start, end int
}

// Tokenize splits a query into its structural parts.
//
//	get <field>
//	get <field> for <field> = "<value>"
//	get <field> for <field> = "<value>" and date between "<after>" and "<before>"
//
// A single trailing period is ignored.
func Tokenize(query string) (ParsedQuery, error) {
	q := strings.TrimSuffix(query, ".")

	literals, err := scanLiterals(query, q)
	if err != nil {
		return ParsedQuery{}, err
	}

	switch len(literals) {
	case 0:
		parts := strings.Split(q, " ")
		if len(parts) != 2 || parts[0] != kwGet {
			return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
				"expected %q, got %d space-separated tokens", "get <field>", len(parts))
		}
		return ParsedQuery{Output: parts[1]}, nil
	case 1, 3:
	default:
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected 0, 1 or 3 quoted values, got %d", len(literals))
	}

	parts := strings.SplitN(q, " ", 5)
	if len(parts) != 5 {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected 5 space-separated tokens, got %d", len(parts))
	}
	if parts[0] != kwGet || parts[2] != kwFor {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected %q", "get <field> for <field> = \"<value>\"")
	}

	head := kwGet + " " + parts[1] + " " + kwFor + " " + parts[3] + eqSeparator
	if q[:literals[0].start] != head {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected %q before the first quoted value", head)
	}

	pq := ParsedQuery{
		Output:      parts[1],
		FilterField: parts[3],
		FilterValue: literals[0].text,
	}

	if len(literals) == 1 {
		if rest := q[literals[0].end:]; rest != "" {
			return ParsedQuery{}, newQueryError(query, ErrMalformedQuery, "unexpected trailing text %q", rest)
		}
		return pq, nil
	}

	if between := q[literals[0].end:literals[1].start]; between != rangeConnector {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected %q, got %q", strings.TrimSpace(rangeConnector), strings.TrimSpace(between))
	}
	if between := q[literals[1].end:literals[2].start]; between != boundConnector {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery,
			"expected %q between date bounds, got %q", strings.TrimSpace(boundConnector), strings.TrimSpace(between))
	}
	if rest := q[literals[2].end:]; rest != "" {
		return ParsedQuery{}, newQueryError(query, ErrMalformedQuery, "unexpected trailing text %q", rest)
	}

	pq.HasRange = true
	pq.After = literals[1].text
	pq.Before = literals[2].text
	return pq, nil
}

// scanLiterals collects every double-quoted substring of q, left to right.
// Quotes do not nest and there are no escapes.
func scanLiterals(query, q string) ([]literal, error) {
	var out []literal
	for i := 0; i < len(q); i++ {
		if q[i] != quote {
			continue
		}
		closing := strings.IndexByte(q[i+1:], quote)
		if closing < 0 {
			return nil, newQueryError(query, ErrMalformedQuery, "unterminated quoted value starting at position %d", i)
		}
		end := i + 1 + closing
		out = append(out, literal{text: q[i+1 : end], start: i, end: end + 1})
		i = end
	}
	return out, nil
}
