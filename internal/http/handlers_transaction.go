package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	Type     string  `json:"type"`
	Amount   string  `json:"amount"`
	Currency *string `json:"currency,omitempty"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Wallet   *string `json:"wallet,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type transactionResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Wallet    string    `json:"wallet,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type transactionPageResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"pageSize"`
	TotalPages   int                   `json:"totalPages"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		Type:      string(t.Type),
		Amount:    int64(t.Amount),
		Currency:  t.Currency,
		Date:      t.Date,
		Category:  t.Category,
		Wallet:    t.Wallet,
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// parseTransactionFilter maps query parameters onto the storage filter.
// Unknown sort fields are passed through: the store falls back to date
// descending rather than erroring.
func parseTransactionFilter(r *http.Request) (storage.TransactionFilter, error) {
	q := r.URL.Query()
	var f storage.TransactionFilter

	f.Type = core.EntryType(q.Get("type"))
	if f.Type != "" && !core.ValidEntryType(f.Type) {
		return f, core.NewValidationError("type", "must be income or expense")
	}
	f.Category = strings.TrimSpace(q.Get("category"))
	f.Wallet = strings.TrimSpace(q.Get("wallet"))
	f.Note = strings.TrimSpace(q.Get("note"))

	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, core.NewValidationError("from", "must be YYYY-MM-DD or RFC 3339")
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, core.NewValidationError("to", "must be YYYY-MM-DD or RFC 3339")
		}
		f.To = &t
	}
	if v := q.Get("minAmount"); v != "" {
		m, err := parseAmountField("minAmount", v)
		if err != nil {
			return f, err
		}
		f.MinAmount = &m
	}
	if v := q.Get("maxAmount"); v != "" {
		m, err := parseAmountField("maxAmount", v)
		if err != nil {
			return f, err
		}
		f.MaxAmount = &m
	}

	f.SortBy = q.Get("sortBy")
	f.Ascending = q.Get("order") == "asc"

	if v := q.Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			f.Page = p
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil {
			f.PageSize = ps
		}
	}

	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseTransactionFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := s.repo.ListTransactions(r.Context(), userID(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := transactionPageResponse{
		Transactions: make([]transactionResponse, 0, len(page.Transactions)),
		Total:        page.Total,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
	}
	for _, t := range page.Transactions {
		out.Transactions = append(out.Transactions, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := parseAmountField("amount", req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := core.Transaction{
		UserID:   userID(r),
		Type:     core.EntryType(req.Type),
		Amount:   amount,
		Date:     date,
		Category: sanitizeInput(req.Category),
	}
	if req.Currency != nil {
		tx.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Wallet != nil {
		tx.Wallet = sanitizeInput(*req.Wallet)
	}
	if req.Note != nil {
		tx.Note = sanitizeInput(*req.Note)
	}

	created, err := s.repo.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.structured.LogTransactionCreated(r.Context(), created.UserID, string(created.Type), created.Category, int64(created.Amount), created.Currency)
	s.publish(r.Context(), created.UserID, events.EntityTransaction, events.ActionCreated, created.ID)
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.repo.GetTransaction(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var patch storage.TransactionPatch
	if req.Type != "" {
		typ := core.EntryType(req.Type)
		patch.Type = &typ
	}
	if req.Amount != "" {
		m, err := parseAmountField("amount", req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Amount = &m
	}
	if req.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*req.Currency))
		patch.Currency = &cur
	}
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Date = &d
	}
	if req.Category != "" {
		cat := sanitizeInput(req.Category)
		patch.Category = &cat
	}
	if req.Wallet != nil {
		wl := sanitizeInput(*req.Wallet)
		patch.Wallet = &wl
	}
	if req.Note != nil {
		note := sanitizeInput(*req.Note)
		patch.Note = &note
	}

	updated, err := s.repo.UpdateTransaction(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), updated.UserID, events.EntityTransaction, events.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteTransaction(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(r.Context(), userID(r), events.EntityTransaction, events.ActionDeleted, id)
	writeJSON(w, http.StatusNoContent, nil)
}

// handleDeleteAllTransactions wipes the user's entire transaction
// history in one atomic operation, reverting every wallet balance
// adjustment along the way.
func (s *Server) handleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.repo.DeleteAllTransactions(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(r.Context(), userID(r), events.EntityTransaction, events.ActionWiped, "")
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
