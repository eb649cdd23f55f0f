package coretypes

// CompareNames implements the record-field ordering from spec.md §3.1:
// integer-valued names are ordered numerically and sort before every
// non-integer name; among non-integers, ordinary lexicographic order
// applies. This is the same "sort the keys before iterating" discipline
// the teacher applies to its own Record.String()/FreeTypeVariables (which
// sort.Strings a record's field names before walking them), generalized
// to treat "1" < "2" < "10" < "a" instead of pure lexicographic order.
func CompareNames(a, b string) int {
	an, aIsInt := parseFieldOrdinal(a)
	bn, bIsInt := parseFieldOrdinal(b)

	switch {
	case aIsInt && bIsInt:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aIsInt && !bIsInt:
		return -1
	case !aIsInt && bIsInt:
		return 1
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// maxFieldOrdinalLen bounds parseFieldOrdinal's fast path: any string
// longer than this cannot encode a value < 1e9 without a leading zero,
// so it falls through to "sorts as infinity" without touching strconv.
const maxFieldOrdinalLen = 9
const fieldOrdinalLimit = 1_000_000_000

// parseFieldOrdinal reports whether s is a canonical positive integer
// field name (1-9 digits, no leading zero, value < 1e9) and its value.
// Anything else is "not an integer" and therefore sorts after every
// integer name, per §4.1's "fast, no-exception path" rule.
func parseFieldOrdinal(s string) (int, bool) {
	if len(s) == 0 || len(s) > maxFieldOrdinalLen {
		return 0, false
	}
	if s[0] == '0' {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n >= fieldOrdinalLimit {
		return 0, false
	}
	return n, true
}
