package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"nova/internal/core"
	applog "nova/internal/log"
	"nova/internal/store"
	"nova/internal/store/memory"
	"nova/internal/xlsx"
)

func newTestServer(t *testing.T, seed map[string]string) (*Server, *store.Store) {
	t.Helper()
	var kv store.KV
	if seed != nil {
		kv = memory.Seed(seed)
	} else {
		kv = memory.New()
	}
	st := store.New(kv)
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	logger := applog.New(applog.Config{
		Handler: slog.NewTextHandler(io.Discard, nil),
	})
	return NewServer(":0", st, logger), st
}

func do(t *testing.T, srv *Server, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, nil, nil)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestProfileLifecycle(t *testing.T) {
	srv, st := newTestServer(t, nil)

	// Fresh state means no profile.
	rr := do(t, srv, http.MethodGet, "/profile", nil, nil)
	if rr.Code != 200 || decodeBody(t, rr)["profile"] != "UNSET" {
		t.Fatalf("fresh profile: status=%d body=%s", rr.Code, rr.Body.String())
	}

	// Invalid token is rejected.
	rr = do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"ADMIN"}`), nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid profile: expected 422, got %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"BUSINESS"}`), nil)
	if rr.Code != 200 {
		t.Fatalf("select profile: status=%d body=%s", rr.Code, rr.Body.String())
	}
	if st.Profile() != core.UserBusiness {
		t.Fatalf("profile not applied: %v", st.Profile())
	}

	// Reset clears the profile but not the list.
	seedTransaction(t, st)
	rr = do(t, srv, http.MethodDelete, "/profile", nil, nil)
	if rr.Code != 200 {
		t.Fatalf("reset: status=%d", rr.Code)
	}
	if st.Profile() != core.UserUnset {
		t.Fatalf("profile after reset: %v", st.Profile())
	}
	if len(st.Transactions()) != 1 {
		t.Fatalf("reset must keep transactions, have %d", len(st.Transactions()))
	}
}

func seedTransaction(t *testing.T, st *store.Store) {
	t.Helper()
	tx, err := core.NewTransaction("seed-1", core.Money{Cents: 1000}, "Seed", "food", core.TypeExpense, core.UserPrivate, false)
	if err != nil {
		t.Fatalf("seed tx: %v", err)
	}
	if err := st.AddTransaction(context.Background(), tx); err != nil {
		t.Fatalf("seed add: %v", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	srv, st := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"BUSINESS"}`), nil)

	// Invalid amount never reaches the store.
	rr := do(t, srv, http.MethodPost, "/transactions", strings.NewReader(`{"amount":"abc","type":"EXPENSE"}`), nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad amount: expected 422, got %d", rr.Code)
	}
	if len(st.Transactions()) != 0 {
		t.Fatalf("rejected submission must not persist")
	}

	// Zero is rejected too.
	rr = do(t, srv, http.MethodPost, "/transactions", strings.NewReader(`{"amount":"0","type":"EXPENSE"}`), nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero amount: expected 422, got %d", rr.Code)
	}

	// Comma decimals are accepted; the deductible flag sticks on business
	// expenses.
	rr = do(t, srv, http.MethodPost, "/transactions",
		strings.NewReader(`{"amount":"12,50","description":"Licenze","category":"saas","type":"expense","isDeductible":true}`), nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", rr.Code, rr.Body.String())
	}
	txs := st.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Amount.Cents != 1250 || tx.Category != "saas" || !tx.IsDeductible() {
		t.Fatalf("stored transaction: %+v", tx)
	}
	if tx.ID == "" {
		t.Fatalf("transaction id not assigned")
	}

	// Blank description falls back to the type placeholder.
	rr = do(t, srv, http.MethodPost, "/transactions",
		strings.NewReader(`{"amount":"5","type":"INCOME"}`), nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("income create: status=%d", rr.Code)
	}
	if got := st.Transactions()[0]; got.Description != "Entrata" || got.Deductible != nil {
		t.Fatalf("income defaults: %+v", got)
	}
}

func TestHistoryFiltering(t *testing.T) {
	srv, st := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"PRIVATE"}`), nil)

	for _, in := range []struct {
		desc, cat string
		cents     int64
		typ       core.TransactionType
	}{
		{"Coffee", "food", 300, core.TypeExpense},
		{"Coffee Beans", "shopping", 1200, core.TypeExpense},
		{"Salary", "salary", 200000, core.TypeIncome},
	} {
		tx, err := core.NewTransaction(in.desc, core.Money{Cents: in.cents}, in.desc, in.cat, in.typ, core.UserPrivate, false)
		if err != nil {
			t.Fatalf("build %s: %v", in.desc, err)
		}
		if err := st.AddTransaction(context.Background(), tx); err != nil {
			t.Fatalf("add %s: %v", in.desc, err)
		}
	}

	rr := do(t, srv, http.MethodGet, "/transactions?q=coffee&type=EXPENSE", nil, nil)
	if rr.Code != 200 {
		t.Fatalf("history: status=%d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["count"].(float64) != 2 {
		t.Fatalf("expected 2 matches, got %v", body["count"])
	}

	rr = do(t, srv, http.MethodGet, "/transactions?category=food", nil, nil)
	if decodeBody(t, rr)["count"].(float64) != 1 {
		t.Fatalf("category filter failed: %s", rr.Body.String())
	}

	// Unknown sort/order tokens fall back to date descending.
	rr = do(t, srv, http.MethodGet, "/transactions?sort=bogus&order=sideways", nil, nil)
	body = decodeBody(t, rr)
	if body["sort"] != "date" || body["order"] != "desc" {
		t.Fatalf("fallback view state: %s", rr.Body.String())
	}
}

func TestDashboardVariants(t *testing.T) {
	srv, st := newTestServer(t, nil)

	// No profile: only the splash payload.
	rr := do(t, srv, http.MethodGet, "/dashboard", nil, nil)
	body := decodeBody(t, rr)
	if body["profile"] != "UNSET" {
		t.Fatalf("unset dashboard: %s", rr.Body.String())
	}
	if _, ok := body["balance"]; ok {
		t.Fatalf("unset dashboard must not compute widgets")
	}

	do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"PRIVATE"}`), nil)
	seedTransaction(t, st)

	rr = do(t, srv, http.MethodGet, "/dashboard", nil, nil)
	body = decodeBody(t, rr)
	if body["profile"] != "PRIVATE" {
		t.Fatalf("private dashboard: %s", rr.Body.String())
	}
	if body["balance"].(float64) != -10 {
		t.Fatalf("balance: %v", body["balance"])
	}
	if _, ok := body["estimatedTax"]; ok {
		t.Fatalf("private dashboard must not show tax accrual")
	}

	do(t, srv, http.MethodPost, "/profile", strings.NewReader(`{"profile":"BUSINESS"}`), nil)
	rr = do(t, srv, http.MethodGet, "/dashboard", nil, nil)
	body = decodeBody(t, rr)
	totals, ok := body["totals"].(map[string]any)
	if !ok {
		t.Fatalf("business dashboard missing totals: %s", rr.Body.String())
	}
	if totals["expense"].(float64) != 10 {
		t.Fatalf("expense total: %v", totals["expense"])
	}
	if _, ok := body["estimatedTax"]; !ok {
		t.Fatalf("business dashboard missing tax accrual")
	}
}

func TestThemeToggle(t *testing.T) {
	srv, st := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/theme", nil, nil)
	if rr.Code != 200 || decodeBody(t, rr)["theme"] != store.ThemeDark {
		t.Fatalf("first toggle: status=%d body=%s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodPost, "/theme", nil, nil)
	if decodeBody(t, rr)["theme"] != store.ThemeLight {
		t.Fatalf("second toggle: %s", rr.Body.String())
	}
	if st.Theme() != store.ThemeLight {
		t.Fatalf("theme not persisted: %s", st.Theme())
	}
}

func TestExportDownload(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedTransaction(t, st)

	rr := do(t, srv, http.MethodGet, "/export", nil, nil)
	if rr.Code != 200 {
		t.Fatalf("export: status=%d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "Nova_Finance_Report_") {
		t.Fatalf("content disposition: %q", cd)
	}

	// The body must be a readable workbook with the seeded row.
	txs, err := xlsx.Read(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("read exported workbook: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "Seed" {
		t.Fatalf("exported rows: %+v", txs)
	}
}

func multipartWorkbook(t *testing.T, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "report.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestImportWorkbook(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedTransaction(t, st)

	f := excelize.NewFile()
	header := []any{"Data", "Descrizione", "Importo", "Valuta", "Tipo", "Categoria", "Deducibile"}
	row := []any{"15/05/2024", "Fattura", 100.0, "EUR", "Entrata", "invoice", "No"}
	_ = f.SetSheetRow("Sheet1", "A1", &header)
	_ = f.SetSheetRow("Sheet1", "A2", &row)
	var wb bytes.Buffer
	if err := f.Write(&wb); err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	f.Close()

	body, contentType := multipartWorkbook(t, wb.Bytes())
	rr := do(t, srv, http.MethodPost, "/import", body, map[string]string{"Content-Type": contentType})
	if rr.Code != 200 {
		t.Fatalf("import: status=%d body=%s", rr.Code, rr.Body.String())
	}
	if decodeBody(t, rr)["imported"].(float64) != 1 {
		t.Fatalf("imported count: %s", rr.Body.String())
	}

	txs := st.Transactions()
	if len(txs) != 2 || txs[0].Description != "Fattura" {
		t.Fatalf("imported block must lead the list: %+v", txs)
	}
}

func TestImportErrorMapping(t *testing.T) {
	srv, st := newTestServer(t, nil)
	seedTransaction(t, st)

	// Structurally unreadable file.
	body, ct := multipartWorkbook(t, []byte("not a spreadsheet"))
	rr := do(t, srv, http.MethodPost, "/import", body, map[string]string{"Content-Type": ct})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unreadable: expected 400, got %d", rr.Code)
	}

	// Valid workbook with zero data rows.
	f := excelize.NewFile()
	header := []any{"Data", "Descrizione", "Importo"}
	_ = f.SetSheetRow("Sheet1", "A1", &header)
	var wb bytes.Buffer
	if err := f.Write(&wb); err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	f.Close()
	body, ct = multipartWorkbook(t, wb.Bytes())
	rr = do(t, srv, http.MethodPost, "/import", body, map[string]string{"Content-Type": ct})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty: expected 422, got %d", rr.Code)
	}

	// Both failures leave the list untouched.
	if len(st.Transactions()) != 1 {
		t.Fatalf("failed imports must not mutate the list")
	}
}

func TestMethodGuards(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/transactions"},
		{http.MethodPost, "/dashboard"},
		{http.MethodPost, "/export"},
		{http.MethodGet, "/import"},
		{http.MethodGet, "/theme"},
	} {
		rr := do(t, srv, tc.method, tc.path, nil, nil)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, rr.Code)
		}
	}
}
