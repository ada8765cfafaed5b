package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

type (
	// Kind discriminates the sign of a transaction in aggregates.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the single persisted entity. ID and CreatedAt are
	// assigned by the store and never change afterwards.
	Transaction struct {
		ID          int64
		Kind        Kind
		Amount      Money
		Description string
		Category    *string // nil when absent; never the empty string
		Date        Date
		CreatedAt   time.Time
	}

	// Draft carries the caller-supplied fields of a transaction, used
	// both for create and for full-replacement update.
	Draft struct {
		Kind        Kind
		Amount      Money
		Description string
		Category    *string
		Date        Date
	}
)

// ErrInvalidInput is the root of the validation error taxonomy; every
// specific validation error wraps it so callers can classify with
// errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("transaction not found")

	ErrInvalidKind      = fmt.Errorf("%w: type must be either \"expense\" or \"income\"", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	ErrEmptyDescription = fmt.Errorf("%w: description is required", ErrInvalidInput)
	ErrMissingDate      = fmt.Errorf("%w: date is required", ErrInvalidInput)
)

func (k Kind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the decimal value for the JSON wire format.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (d Date) Year() int  { return d.Time.Year() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Day() int   { return d.Time.Day() }

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the wire format YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return Date{Time: t}, nil
}

// String renders the wire format. Zero dates render as an empty string
// so an unparseable persisted value round-trips as non-matching.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Draft) Validate() error {
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// NormalizeCategory maps blank categories to nil so the stored record
// never carries an empty string.
func NormalizeCategory(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

// Apply copies the draft's fields onto an existing record, leaving ID
// and CreatedAt untouched.
func (d Draft) Apply(t Transaction) Transaction {
	t.Kind = d.Kind
	t.Amount = d.Amount
	t.Description = d.Description
	t.Category = NormalizeCategory(d.Category)
	t.Date = d.Date
	return t
}
