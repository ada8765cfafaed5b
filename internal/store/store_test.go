package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"splitcash/internal/core"
	"splitcash/internal/store/memory"
)

func openTestStore(t *testing.T) (*Store, *memory.Snapshot) {
	t.Helper()
	snap := memory.New()
	s, err := Open(context.Background(), snap)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s, snap
}

func draft(kind core.Kind, cents int64, desc, date string) core.Draft {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Draft{Kind: kind, Amount: core.Money{Cents: cents}, Description: desc, Date: d}
}

func TestCreateRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, draft(core.Expense, 5000, "Groceries", "2024-03-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("first id should be 1, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("created_at not stamped")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Groceries" || got.Amount.Cents != 5000 || got.Kind != core.Expense {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Date.String() != "2024-03-01" {
		t.Fatalf("unexpected date: %q", got.Date.String())
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, draft(core.Expense, 0, "x", "2024-01-01")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("zero amount: expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.Create(ctx, draft(core.Expense, -100, "x", "2024-01-01")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("negative amount: expected ErrInvalidInput, got %v", err)
	}
	// amount = 0.01 succeeds
	if _, err := s.Create(ctx, draft(core.Expense, 1, "x", "2024-01-01")); err != nil {
		t.Fatalf("one cent should be valid: %v", err)
	}
}

func TestIDAllocatorRecoveredFromSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := memory.Seed([]core.Transaction{
		{ID: 3, Kind: core.Income, Amount: core.Money{Cents: 100}, Description: "a", Date: core.NewDate(2024, 1, 1)},
		{ID: 7, Kind: core.Expense, Amount: core.Money{Cents: 100}, Description: "b", Date: core.NewDate(2024, 1, 2)},
	})

	s, err := Open(ctx, snap)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	created, err := s.Create(ctx, draft(core.Income, 100, "c", "2024-01-03"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id 8 after max 7, got %d", created.ID)
	}
}

func TestIDsUniqueAcrossRestart(t *testing.T) {
	ctx := context.Background()
	snap := memory.New()

	s1, _ := Open(ctx, snap)
	first, err := s1.Create(ctx, draft(core.Expense, 100, "a", "2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A new store over the same snapshot must not reuse ids.
	s2, _ := Open(ctx, snap)
	second, err := s2.Create(ctx, draft(core.Expense, 100, "b", "2024-01-02"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("id %d not greater than persisted %d", second.ID, first.ID)
	}
}

func TestDeleteIdempotenceSignaling(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	created, _ := s.Create(ctx, draft(core.Expense, 100, "a", "2024-01-01"))

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSemantics(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	created, _ := s.Create(ctx, draft(core.Expense, 100, "old", "2024-01-01"))

	updated, err := s.Update(ctx, created.ID, draft(core.Income, 20000, "Salary", "2024-02-01"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("identity changed on update: %+v", updated)
	}
	if updated.Kind != core.Income || updated.Description != "Salary" {
		t.Fatalf("fields not replaced: %+v", updated)
	}

	if _, err := s.Update(ctx, 999, draft(core.Income, 1, "x", "2024-01-01")); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing id: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, created.ID, draft("bad", 1, "x", "2024-01-01")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("bad kind: expected ErrInvalidInput, got %v", err)
	}
}

func TestSummaryMatchesListRecompute(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	seed := []core.Draft{
		draft(core.Expense, 5000, "Groceries", "2024-03-01"),
		draft(core.Income, 20000, "Salary", "2024-03-02"),
		draft(core.Expense, 700, "Coffee", "2023-12-30"),
	}
	for _, d := range seed {
		if _, err := s.Create(ctx, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	for _, f := range []core.Filter{{}, {Year: 2024}, {Year: 2024, Month: 3}, {Year: 2023}} {
		sum, err := s.Summary(ctx, f)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		listed, err := s.List(ctx, f.WithoutKind())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if want := core.ComputeSummary(listed); sum != want {
			t.Fatalf("filter %+v: summary %+v != recomputed %+v", f, sum, want)
		}
	}

	sum, _ := s.Summary(ctx, core.Filter{})
	if sum.TotalIncome.Cents != 20000 || sum.TotalExpenses.Cents != 5700 || sum.Balance.Cents != 14300 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
}

func TestSummaryIgnoresKindFilter(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	s.Create(ctx, draft(core.Expense, 5000, "Groceries", "2024-03-01"))
	s.Create(ctx, draft(core.Income, 20000, "Salary", "2024-03-02"))

	sum, err := s.Summary(ctx, core.Filter{Kind: core.Expense})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalIncome.Cents != 20000 || sum.TotalExpenses.Cents != 5000 || sum.Balance.Cents != 15000 {
		t.Fatalf("kind filter must not narrow summary: %+v", sum)
	}
}

func TestOrderingSameDateByCreatedAt(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, _ := s.Create(ctx, draft(core.Expense, 100, "first", "2024-03-05"))
	second, _ := s.Create(ctx, draft(core.Expense, 100, "second", "2024-03-05"))

	listed, err := s.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Fatalf("later created_at should come first: %+v", listed)
	}
}

// failingSnapshotter rejects persists after an initial load.
type failingSnapshotter struct {
	loadFrom []core.Transaction
}

func (f *failingSnapshotter) Load(context.Context) ([]core.Transaction, error) {
	return f.loadFrom, nil
}

func (f *failingSnapshotter) Persist(context.Context, []core.Transaction) error {
	return errors.New("disk full")
}

func TestFailedPersistRollsBack(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &failingSnapshotter{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := s.Create(ctx, draft(core.Expense, 100, "a", "2024-01-01")); err == nil {
		t.Fatalf("expected persistence failure")
	}

	listed, _ := s.List(ctx, core.Filter{})
	if len(listed) != 0 {
		t.Fatalf("failed persist must not commit in-memory state: %+v", listed)
	}

	// The allocator still advances: a later successful id can never
	// collide with one handed out before a failed persist.
	if s.nextID != 2 {
		t.Fatalf("expected allocator at 2, got %d", s.nextID)
	}
}
