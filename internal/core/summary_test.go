package core

import (
	"testing"
	"time"
)

func TestComputeSummary(t *testing.T) {
	now := time.Now()
	set := []Transaction{
		{ID: 1, Kind: Expense, Amount: Money{Cents: 5000}, Description: "Groceries", Date: NewDate(2024, 3, 1), CreatedAt: now},
		{ID: 2, Kind: Income, Amount: Money{Cents: 20000}, Description: "Salary", Date: NewDate(2024, 3, 2), CreatedAt: now},
	}

	s := ComputeSummary(set)
	if s.TotalIncome.Cents != 20000 {
		t.Fatalf("expected income 20000, got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 5000 {
		t.Fatalf("expected expenses 5000, got %d", s.TotalExpenses.Cents)
	}
	if s.Balance.Cents != 15000 {
		t.Fatalf("expected balance 15000, got %d", s.Balance.Cents)
	}
}

func TestComputeSummaryEmptyAndNegativeBalance(t *testing.T) {
	if s := ComputeSummary(nil); s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("empty set should produce zero summary: %+v", s)
	}

	set := []Transaction{
		{ID: 1, Kind: Expense, Amount: Money{Cents: 300}, Description: "x", Date: NewDate(2024, 1, 1)},
	}
	if s := ComputeSummary(set); s.Balance.Cents != -300 {
		t.Fatalf("expected negative balance, got %d", s.Balance.Cents)
	}
}
