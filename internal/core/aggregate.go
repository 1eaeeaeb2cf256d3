package core

// TaxRate is the flat percentage used for the business tax-accrual widget.
// It is illustrative only, not a real tax computation.
const TaxRate = 0.26

// Totals is the income/expense/net summary for the business dashboard.
type Totals struct {
	Income  Money
	Expense Money
	Net     Money
}

// SeriesPoint is one bar of the recent-cash-flow chart.
type SeriesPoint struct {
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
}

// Balance is the signed running total over the whole list: incomes add,
// expenses subtract. Profile-independent.
func Balance(txs []Transaction) Money {
	var cents int64
	for _, tx := range txs {
		if tx.Type == TypeIncome {
			cents += tx.Amount.Cents
		} else {
			cents -= tx.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// ComputeTotals sums amounts by type. Net can be negative.
func ComputeTotals(txs []Transaction) Totals {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			income += tx.Amount.Cents
		case TypeExpense:
			expense += tx.Amount.Cents
		}
	}
	return Totals{
		Income:  Money{Cents: income},
		Expense: Money{Cents: expense},
		Net:     Money{Cents: income - expense},
	}
}

// EstimatedTax applies the flat illustrative rate to total income, rounding
// to the cent.
func EstimatedTax(income Money) Money {
	return FromEuros(income.Euros() * TaxRate)
}

// RecentSeries maps the last n transactions of the stored list (which is
// most-recent-first) to chart points, reversed so the series reads
// oldest-first. Labels are the first three runes of the description. Empty
// input yields an empty series. Recomputed on every call, no caching.
func RecentSeries(txs []Transaction, n int) []SeriesPoint {
	if len(txs) == 0 || n <= 0 {
		return nil
	}
	if n > len(txs) {
		n = len(txs)
	}
	tail := txs[len(txs)-n:]
	out := make([]SeriesPoint, 0, n)
	for i := len(tail) - 1; i >= 0; i-- {
		tx := tail[i]
		label := []rune(tx.Description)
		if len(label) > 3 {
			label = label[:3]
		}
		out = append(out, SeriesPoint{Label: string(label), Amount: tx.Amount})
	}
	return out
}
