package http

import (
	"net/http"

	applog "splitcash/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ts, err := s.store.List(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to list transactions", applog.FieldError, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionListJSON(ts))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := decodePayload(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	draft, err := payload.toDraft()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	created, err := s.store.Create(ctx, draft)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to create transaction", applog.FieldError, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	draft, err := payload.toDraft()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	updated, err := s.store.Update(ctx, id, draft)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to update transaction",
			"transaction_id", id, applog.FieldError, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := s.store.Delete(ctx, id); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to delete transaction",
			"transaction_id", id, applog.FieldError, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successJSON{Success: true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sum, err := s.store.Summary(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to compute summary", applog.FieldError, err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}
