package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"nova/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1 // remove character
		}
		return r
	}, s)
	return result
}

func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(euros, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + s
	}
	return "€" + s
}

// historyFilterFromQuery reads the history view state from query parameters.
// Absent or unknown values fall back to the default view (all rows, newest
// first).
func historyFilterFromQuery(r *http.Request) core.HistoryFilter {
	q := r.URL.Query()

	f := core.HistoryFilter{
		Search:   sanitizeInput(q.Get("q")),
		Type:     core.FilterAll,
		Category: core.FilterAll,
		Sort:     core.SortByDate,
		Order:    core.OrderDesc,
	}

	switch strings.ToUpper(strings.TrimSpace(q.Get("type"))) {
	case string(core.TypeIncome):
		f.Type = string(core.TypeIncome)
	case string(core.TypeExpense):
		f.Type = string(core.TypeExpense)
	}

	if c := strings.TrimSpace(q.Get("category")); c != "" && c != core.FilterAll {
		f.Category = c
	}

	if s := core.SortField(strings.TrimSpace(q.Get("sort"))); s.IsValid() {
		f.Sort = s
	}
	if o := strings.TrimSpace(q.Get("order")); o == string(core.OrderAsc) {
		f.Order = core.OrderAsc
	}

	return f
}
