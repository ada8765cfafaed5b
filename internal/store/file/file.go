// Package file persists the transaction record set as a single JSON
// snapshot on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"splitcash/internal/core"
)

// Snapshot reads and writes the record set at a fixed path. Persist
// writes to a temp file in the same directory and renames it over the
// target, so a crash mid-write can never leave a torn snapshot.
type Snapshot struct {
	path string
}

func New(path string) *Snapshot {
	return &Snapshot{path: path}
}

// record is the on-disk shape. Amounts are stored as cents to keep
// sums exact; dates keep their wire format.
type record struct {
	ID          int64   `json:"id"`
	Kind        string  `json:"type"`
	AmountCents int64   `json:"amount_cents"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

func (s *Snapshot) Load(_ context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}

	out := make([]core.Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toTransaction())
	}
	return out, nil
}

func (s *Snapshot) Persist(_ context.Context, ts []core.Transaction) error {
	recs := make([]record, 0, len(ts))
	for _, t := range ts {
		recs = append(recs, fromTransaction(t))
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func fromTransaction(t core.Transaction) record {
	return record{
		ID:          t.ID,
		Kind:        string(t.Kind),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.String(),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// toTransaction tolerates malformed date/created_at values written by
// other processes sharing the file: they decode to zero times, which
// never match year/month filters and sort last.
func (r record) toTransaction() core.Transaction {
	t := core.Transaction{
		ID:          r.ID,
		Kind:        core.Kind(r.Kind),
		Amount:      core.Money{Cents: r.AmountCents},
		Description: r.Description,
		Category:    core.NormalizeCategory(r.Category),
	}
	if d, err := core.ParseDate(r.Date); err == nil {
		t.Date = d
	}
	if ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	return t
}
