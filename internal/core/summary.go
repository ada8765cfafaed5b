package core

// Summary holds the derived totals for a (possibly filtered) record
// set. Balance may be negative.
type Summary struct {
	TotalIncome   Money
	TotalExpenses Money
	Balance       Money
}

// ComputeSummary recomputes the totals from the given set. It is
// always derived fresh; callers must not cache the result across
// mutations.
func ComputeSummary(ts []Transaction) Summary {
	var s Summary
	for _, t := range ts {
		switch t.Kind {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case Expense:
			s.TotalExpenses.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	return s
}
