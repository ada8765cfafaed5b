package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"splitcash/internal/core"
	"splitcash/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the SQLite-backed TransactionStore. Unlike the
// snapshot store it mutates per row; SQLite's AUTOINCREMENT keeps ids
// strictly increasing and never reused, matching the allocator
// contract.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.TransactionStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const selectColumns = "id, kind, amount_cents, description, category, date, created_at"

// createdAtLayout pads the fraction to nine digits. ORDER BY compares
// created_at as text, so the stored form must sort chronologically;
// RFC3339Nano trims trailing zeros and breaks that for same-second
// ties.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

func (r *SQLiteRepository) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	// Year/month compare string components of the date, zero-padded,
	// exactly as the filter engine does on parsed dates.
	query := "SELECT " + selectColumns + " FROM transactions WHERE 1=1"
	var args []any
	if f.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(f.Kind))
	}
	if f.Year != 0 {
		query += " AND substr(date, 1, 4) = ?"
		args = append(args, fmt.Sprintf("%04d", f.Year))
		if f.Month != 0 {
			query += " AND substr(date, 6, 2) = ?"
			args = append(args, fmt.Sprintf("%02d", f.Month))
		}
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	rec := d.Apply(core.Transaction{CreatedAt: time.Now().UTC()})

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (kind, amount_cents, description, category, date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		string(rec.Kind), rec.Amount.Cents, rec.Description, categoryValue(rec.Category),
		rec.Date.String(), formatCreatedAt(rec.CreatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", rec.ID,
		"type", rec.Kind,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.String())

	return rec, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET kind = ?, amount_cents = ?, description = ?, category = ?, date = ? WHERE id = ?",
		string(d.Kind), d.Amount.Cents, d.Description, categoryValue(core.NormalizeCategory(d.Category)),
		d.Date.String(), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) Summary(ctx context.Context, f core.Filter) (core.Summary, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions WHERE 1=1`
	var args []any
	if f.Year != 0 {
		query += " AND substr(date, 1, 4) = ?"
		args = append(args, fmt.Sprintf("%04d", f.Year))
		if f.Month != 0 {
			query += " AND substr(date, 6, 2) = ?"
			args = append(args, fmt.Sprintf("%02d", f.Month))
		}
	}

	var s core.Summary
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.TotalIncome.Cents, &s.TotalExpenses.Cents); err != nil {
		return core.Summary{}, fmt.Errorf("summary query: %w", err)
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		kind      string
		category  sql.NullString
		date      string
		createdAt string
	)
	if err := row.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Description, &category, &date, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.Kind(kind)
	if category.Valid {
		t.Category = core.NormalizeCategory(&category.String)
	}
	// Malformed persisted dates stay zero: a filter non-match.
	if d, err := core.ParseDate(date); err == nil {
		t.Date = d
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}

func categoryValue(c *string) any {
	if c == nil {
		return nil
	}
	return *c
}
