package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"nova/internal/core"
	applog "nova/internal/log"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleHistory(w, r)
	default:
		methodNotAllowed(w, "GET", "POST")
	}
}

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Deductible  bool   `json:"isDeductible"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "importo non valido")
		return
	}

	txType := core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type)))
	profile := s.store.Profile()

	category := sanitizeInput(req.Category)
	if category == "" {
		category = core.DefaultCategoryID(profile, txType)
	}

	tx, err := core.NewTransaction(
		uuid.NewString(),
		core.Money{Cents: cents},
		sanitizeInput(req.Description),
		category,
		txType,
		profile,
		req.Deductible,
	)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "dati non validi")
		return
	}

	if err := s.store.AddTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidType) {
			writeError(w, http.StatusUnprocessableEntity, "dati non validi")
			return
		}
		s.logger.ErrorContext(r.Context(), "Transaction save failed",
			applog.FieldOperation, applog.OpAdd,
			applog.FieldTransactionID, tx.ID,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "errore nel salvataggio")
		return
	}

	s.logger.InfoContext(r.Context(), "Transaction created",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldTransactionID, tx.ID,
		applog.FieldType, string(tx.Type),
		applog.FieldAmountCents, tx.Amount.Cents,
		applog.FieldCategory, tx.Category)
	writeJSON(w, http.StatusCreated, tx)
}

// handleHistory returns the filtered, sorted view of the list. The stored
// order is never touched; each request computes its own view.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter := historyFilterFromQuery(r)
	view := core.HistoryView(s.store.Transactions(), filter)

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": view,
		"count":        len(view),
		"sort":         string(filter.Sort),
		"order":        string(filter.Order),
	})
}
