package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"splitcash/internal/core"
)

// transactionPayload is the JSON body accepted by create and update.
// Amount arrives as a JSON number or a string; both go through the
// same decimal parser.
type transactionPayload struct {
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    *string     `json:"category"`
	Date        string      `json:"date"`
}

func decodePayload(r *http.Request) (transactionPayload, error) {
	var p transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("%w: invalid JSON body", core.ErrInvalidInput)
	}
	return p, nil
}

func (p transactionPayload) toDraft() (core.Draft, error) {
	if p.Type == "" || p.Amount.String() == "" || p.Description == "" || p.Date == "" {
		return core.Draft{}, fmt.Errorf("%w: missing required fields", core.ErrInvalidInput)
	}

	kind := core.Kind(p.Type)
	if err := kind.Validate(); err != nil {
		return core.Draft{}, err
	}

	cents, err := core.ParseDecimalToCents(p.Amount.String())
	if err != nil {
		return core.Draft{}, fmt.Errorf("%w: invalid amount: %v", core.ErrInvalidInput, err)
	}

	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Draft{}, fmt.Errorf("%w: date must be YYYY-MM-DD", core.ErrInvalidInput)
	}

	return core.Draft{
		Kind:        kind,
		Amount:      core.Money{Cents: cents},
		Description: p.Description,
		Category:    core.NormalizeCategory(p.Category),
		Date:        date,
	}, nil
}

// parseFilter reads the list and summary query parameters. Values that
// do not parse are ignored rather than rejected.
func parseFilter(query url.Values) core.Filter {
	var f core.Filter

	if kind := core.Kind(query.Get("type")); kind.Validate() == nil {
		f.Kind = kind
	}
	if year, err := strconv.Atoi(query.Get("year")); err == nil && year > 0 {
		f.Year = year
	}
	if month, err := strconv.Atoi(query.Get("month")); err == nil && month > 0 {
		f.Month = month
	}

	return f
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid transaction ID", core.ErrInvalidInput)
	}
	return id, nil
}
