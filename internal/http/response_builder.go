package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"splitcash/internal/core"
)

// transactionJSON is the wire shape of a transaction. Amounts leave as
// decimals even though the store keeps cents.
type transactionJSON struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

type summaryJSON struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
}

type errorJSON struct {
	Error string `json:"error"`
}

type successJSON struct {
	Success bool `json:"success"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Kind),
		Amount:      t.Amount.Float(),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
	}
}

func toTransactionListJSON(ts []core.Transaction) []transactionJSON {
	// Empty lists serialize as [] rather than null.
	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

func toSummaryJSON(s core.Summary) summaryJSON {
	return summaryJSON{
		TotalIncome:   s.TotalIncome.Float(),
		TotalExpenses: s.TotalExpenses.Float(),
		Balance:       s.Balance.Float(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}

// writeStoreError maps store errors onto status codes. Unclassified
// errors never leak their message to the client.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
