package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"nova/internal/core"
	applog "nova/internal/log"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{
			"profile": string(s.store.Profile()),
			"theme":   s.store.Theme(),
		})
	case http.MethodPost:
		s.handleSelectProfile(w, r)
	case http.MethodDelete:
		s.handleResetProfile(w, r)
	default:
		methodNotAllowed(w, "GET", "POST", "DELETE")
	}
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile string `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Unknown tokens map to UNSET, which SetProfile rejects.
	profile := core.ParseUserType(req.Profile)
	if err := s.store.SetProfile(r.Context(), profile); err != nil {
		s.logger.WarnContext(r.Context(), "Profile selection rejected",
			applog.FieldOperation, applog.OpProfile,
			applog.FieldProfile, req.Profile,
			applog.FieldError, err)
		if errors.Is(err, core.ErrInvalidProfile) {
			writeError(w, http.StatusUnprocessableEntity, "invalid profile")
		} else {
			writeError(w, http.StatusInternalServerError, "profile not saved")
		}
		return
	}

	s.logger.InfoContext(r.Context(), "Profile selected",
		applog.FieldOperation, applog.OpProfile,
		applog.FieldProfile, string(profile))
	writeJSON(w, http.StatusOK, map[string]string{"profile": string(profile)})
}

// handleResetProfile clears the stored profile only. The transaction list
// survives and reappears once a profile is selected again.
func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetProfile(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Profile reset failed",
			applog.FieldOperation, applog.OpReset,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profile": string(core.UserUnset)})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	theme, err := s.store.ToggleTheme(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Theme toggle failed",
			applog.FieldOperation, applog.OpTheme,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "theme toggle failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

const recentSeriesSize = 7

type timelineEntry struct {
	core.Transaction
	Glyph        string `json:"glyph"`
	CategoryName string `json:"categoryName"`
	Display      string `json:"display"`
}

// handleDashboard renders the profile-specific read model. Everything is
// recomputed from the current list on each call.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	profile := s.store.Profile()
	if profile == core.UserUnset {
		writeJSON(w, http.StatusOK, map[string]any{
			"profile": string(core.UserUnset),
			"theme":   s.store.Theme(),
		})
		return
	}

	txs := s.store.Transactions()
	series := core.RecentSeries(txs, recentSeriesSize)

	timeline := make([]timelineEntry, 0, len(txs))
	for _, tx := range txs {
		timeline = append(timeline, timelineEntry{
			Transaction:  tx,
			Glyph:        core.ResolveGlyph(tx, profile),
			CategoryName: core.ResolveName(tx, profile),
			Display:      formatEuros(tx.Amount.Cents),
		})
	}

	body := map[string]any{
		"profile":  string(profile),
		"theme":    s.store.Theme(),
		"series":   series,
		"timeline": timeline,
	}

	switch profile {
	case core.UserBusiness:
		totals := core.ComputeTotals(txs)
		body["totals"] = map[string]core.Money{
			"income":  totals.Income,
			"expense": totals.Expense,
			"net":     totals.Net,
		}
		body["estimatedTax"] = core.EstimatedTax(totals.Income)
	default:
		body["balance"] = core.Balance(txs)
	}

	writeJSON(w, http.StatusOK, body)
}
