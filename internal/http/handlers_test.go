package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"splitcash/internal/store"
	"splitcash/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return NewServer(":0", st, nil)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func createTransaction(t *testing.T, s *Server, body string) map[string]any {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	return got
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	got := createTransaction(t, s, `{"type":"expense","amount":42.5,"description":"Groceries","category":"food","date":"2024-03-15"}`)

	if got["id"] != float64(1) {
		t.Errorf("id = %v, want 1", got["id"])
	}
	if got["type"] != "expense" {
		t.Errorf("type = %v, want expense", got["type"])
	}
	if got["amount"] != 42.5 {
		t.Errorf("amount = %v, want 42.5", got["amount"])
	}
	if got["category"] != "food" {
		t.Errorf("category = %v, want food", got["category"])
	}
	if got["date"] != "2024-03-15" {
		t.Errorf("date = %v, want 2024-03-15", got["date"])
	}
	if got["created_at"] == "" || got["created_at"] == nil {
		t.Errorf("created_at missing from response")
	}
}

func TestCreateTransactionAmountAsString(t *testing.T) {
	s := newTestServer(t)

	got := createTransaction(t, s, `{"type":"income","amount":"1200.00","description":"Salary","date":"2024-03-01"}`)

	if got["amount"] != float64(1200) {
		t.Errorf("amount = %v, want 1200", got["amount"])
	}
	if got["category"] != nil {
		t.Errorf("category = %v, want null", got["category"])
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing date", `{"type":"expense","amount":10,"description":"x"}`},
		{"invalid type", `{"type":"transfer","amount":10,"description":"x","date":"2024-01-01"}`},
		{"zero amount", `{"type":"expense","amount":0,"description":"x","date":"2024-01-01"}`},
		{"negative amount", `{"type":"expense","amount":-5,"description":"x","date":"2024-01-01"}`},
		{"bad date", `{"type":"expense","amount":10,"description":"x","date":"15/03/2024"}`},
		{"not JSON", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := doRequest(t, s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var got map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if got["error"] == "" || got["error"] == nil {
				t.Errorf("error message missing from response")
			}
		})
	}
}

func TestListTransactionsOrdering(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"expense","amount":10,"description":"older","date":"2024-01-10"}`)
	createTransaction(t, s, `{"type":"expense","amount":20,"description":"newer","date":"2024-02-10"}`)
	createTransaction(t, s, `{"type":"expense","amount":30,"description":"same day, created later","date":"2024-02-10"}`)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantIDs := []float64{3, 2, 1}
	for i, want := range wantIDs {
		if got[i]["id"] != want {
			t.Errorf("position %d: id = %v, want %v", i, got[i]["id"], want)
		}
	}
}

func TestListTransactionsEmpty(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"expense","amount":10,"description":"rent","date":"2024-03-01"}`)
	createTransaction(t, s, `{"type":"income","amount":100,"description":"salary","date":"2024-03-01"}`)
	createTransaction(t, s, `{"type":"expense","amount":20,"description":"old rent","date":"2023-03-01"}`)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filter", "", 3},
		{"by type", "?type=expense", 2},
		{"by year", "?year=2024", 2},
		{"by year and month", "?year=2024&month=3", 2},
		{"month without year ignored", "?month=3", 3},
		{"unknown type ignored", "?type=transfer", 3},
		{"non numeric year ignored", "?year=abc", 3},
		{"type and year", "?type=income&year=2023", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, "/api/transactions"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var got []map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal list: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	s := newTestServer(t)

	created := createTransaction(t, s, `{"type":"expense","amount":10,"description":"draft","date":"2024-01-01"}`)

	rec := doRequest(t, s, http.MethodPut, "/api/transactions/1",
		`{"type":"income","amount":99.99,"description":"fixed","category":"work","date":"2024-02-02"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal update response: %v", err)
	}
	if got["id"] != float64(1) {
		t.Errorf("id = %v, want 1", got["id"])
	}
	if got["type"] != "income" || got["amount"] != 99.99 || got["description"] != "fixed" {
		t.Errorf("updated fields not applied: %v", got)
	}
	if got["created_at"] != created["created_at"] {
		t.Errorf("created_at changed on update: %v != %v", got["created_at"], created["created_at"])
	}
}

func TestUpdateTransactionViaPatch(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"expense","amount":10,"description":"draft","date":"2024-01-01"}`)

	rec := doRequest(t, s, http.MethodPatch, "/api/transactions/1",
		`{"type":"expense","amount":11,"description":"patched","date":"2024-01-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateTransactionErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing id", "/api/transactions/42", `{"type":"expense","amount":10,"description":"x","date":"2024-01-01"}`, http.StatusNotFound},
		{"non numeric id", "/api/transactions/abc", `{"type":"expense","amount":10,"description":"x","date":"2024-01-01"}`, http.StatusBadRequest},
		{"invalid body", "/api/transactions/1", `{"type":"expense"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			createTransaction(t, s, `{"type":"expense","amount":10,"description":"x","date":"2024-01-01"}`)

			rec := doRequest(t, s, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"expense","amount":10,"description":"x","date":"2024-01-01"}`)

	rec := doRequest(t, s, http.MethodDelete, "/api/transactions/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %s, want success flag", rec.Body.String())
	}

	// A second delete of the same id reports not found.
	rec = doRequest(t, s, http.MethodDelete, "/api/transactions/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("list after delete = %s, want []", body)
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"expense","amount":50,"description":"groceries","date":"2024-03-10"}`)
	createTransaction(t, s, `{"type":"income","amount":200,"description":"salary","date":"2024-03-01"}`)
	createTransaction(t, s, `{"type":"expense","amount":30,"description":"old","date":"2023-12-01"}`)

	tests := []struct {
		name         string
		query        string
		wantIncome   float64
		wantExpenses float64
		wantBalance  float64
	}{
		{"all records", "", 200, 80, 120},
		{"by year", "?year=2024", 200, 50, 150},
		{"by year and month", "?year=2023&month=12", 0, 30, -30},
		{"type filter has no effect", "?type=expense", 200, 80, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, "/api/summary"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var got summaryJSON
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal summary: %v", err)
			}
			if got.TotalIncome != tt.wantIncome {
				t.Errorf("totalIncome = %v, want %v", got.TotalIncome, tt.wantIncome)
			}
			if got.TotalExpenses != tt.wantExpenses {
				t.Errorf("totalExpenses = %v, want %v", got.TotalExpenses, tt.wantExpenses)
			}
			if got.Balance != tt.wantBalance {
				t.Errorf("balance = %v, want %v", got.Balance, tt.wantBalance)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
