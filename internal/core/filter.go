package core

import "sort"

// Filter narrows a record set by kind and calendar year/month. Zero
// values mean "no constraint". Month is only honored together with
// Year; a month on its own applies no narrowing.
type Filter struct {
	Kind  Kind
	Year  int
	Month int // 1-12, requires Year
}

// Matches reports whether the transaction satisfies every supplied
// predicate. Year/month are compared against the date component, never
// against created_at. A zero (unparseable) date never matches a
// year/month constraint.
func (f Filter) Matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.Year != 0 {
		if t.Date.IsZero() || t.Date.Year() != f.Year {
			return false
		}
		if f.Month != 0 && t.Date.Month() != f.Month {
			return false
		}
	}
	return true
}

// WithoutKind strips the kind predicate; summaries always include both
// kinds.
func (f Filter) WithoutKind() Filter {
	f.Kind = ""
	return f
}

// Apply returns the matching transactions in display order: date
// descending, created_at descending for equal dates.
func (f Filter) Apply(ts []Transaction) []Transaction {
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay orders transactions reverse-chronologically by date,
// breaking ties on created_at (most recently entered first). Zero
// dates sort last. The sort is stable so equal keys keep insertion
// order.
func SortForDisplay(ts []Transaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].Date.Equal(ts[j].Date.Time) {
			return ts[i].Date.After(ts[j].Date.Time)
		}
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
}
