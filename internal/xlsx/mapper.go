// Package xlsx maps transactions to and from the spreadsheet representation:
// one sheet, seven fixed columns, Italian-locale date and boolean tokens.
package xlsx

import (
	"strconv"
	"strings"
	"time"

	"nova/internal/core"
)

// SheetName is the single sheet both export and import use.
const SheetName = "Transazioni"

// Column headers. Import matches them exactly, case-sensitive.
const (
	ColDate        = "Data"
	ColDescription = "Descrizione"
	ColAmount      = "Importo"
	ColCurrency    = "Valuta"
	ColType        = "Tipo"
	ColCategory    = "Categoria"
	ColDeductible  = "Deducibile"
)

// Localized cell tokens.
const (
	TokenIncome  = "Entrata"
	TokenExpense = "Uscita"
	TokenYes     = "Sì"
	TokenNo      = "No"
	Currency     = "EUR"

	// DateLayout renders dates day/month/year, Italian style.
	DateLayout = "02/01/2006"
)

// Columns is the export column order; the import header map is built from
// whatever subset of these the document actually carries.
var Columns = []string{ColDate, ColDescription, ColAmount, ColCurrency, ColType, ColCategory, ColDeductible}

// ImportedDescription is the placeholder for rows with a blank description.
const ImportedDescription = "Transazione Importata"

// exportRow flattens a transaction into the seven-column shape. Deductible
// is always present; an absent flag exports as "No".
func exportRow(tx core.Transaction) []any {
	typeToken := TokenExpense
	if tx.Type == core.TypeIncome {
		typeToken = TokenIncome
	}
	deductible := TokenNo
	if tx.IsDeductible() {
		deductible = TokenYes
	}
	return []any{
		tx.Date.Format(DateLayout),
		tx.Description,
		tx.Amount.Euros(),
		Currency,
		typeToken,
		tx.Category,
		deductible,
	}
}

// decodeRow turns one untrusted row into a transaction. It is total: every
// malformed cell falls back to a default and the row is still admitted.
//   - amount: unparsable or missing → 0; zero-amount rows are admitted
//   - description: blank → fixed placeholder
//   - category: blank → generic id, never validated against the taxonomy
//   - date: day/month/year reinterpreted as an instant; unparsable → now
//   - type: anything but the income token → EXPENSE
//   - deductible: true only on an exact yes-token match, and only on expenses
//
// The id combines the batch base with the row index, unique within the batch.
func decodeRow(cells map[string]string, idBase string, idx int, now time.Time) core.Transaction {
	tx := core.Transaction{
		ID:          idBase + "-" + strconv.Itoa(idx),
		Amount:      parseAmount(cells[ColAmount]),
		Description: strings.TrimSpace(cells[ColDescription]),
		Category:    strings.TrimSpace(cells[ColCategory]),
		Date:        parseDate(cells[ColDate], now),
		Type:        core.TypeExpense,
	}
	if tx.Description == "" {
		tx.Description = ImportedDescription
	}
	if tx.Category == "" {
		tx.Category = core.GenericCategoryID
	}
	if strings.TrimSpace(cells[ColType]) == TokenIncome {
		tx.Type = core.TypeIncome
	}
	if tx.Type == core.TypeExpense {
		deductible := strings.TrimSpace(cells[ColDeductible]) == TokenYes
		tx.Deductible = &deductible
	}
	return tx
}

func parseAmount(s string) core.Money {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Money{}
	}
	return core.FromEuros(v)
}

func parseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC()
	}
	// Tolerate single-digit day/month the way spreadsheets write them.
	if t, err := time.Parse("2/1/2006", s); err == nil {
		return t.UTC()
	}
	return now
}
