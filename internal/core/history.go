package core

import (
	"sort"
	"strings"
)

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"

	// FilterAll matches every transaction for the type and category filters.
	FilterAll = "all"
)

type (
	SortField string
	SortOrder string

	// HistoryFilter is the user-specified view state of the history table.
	// Filters are conjunctive; zero values mean "match everything".
	HistoryFilter struct {
		Search   string
		Type     string // "all" or a TransactionType token
		Category string // "all" or a category id
		Sort     SortField
		Order    SortOrder
	}
)

func (f SortField) IsValid() bool {
	return f == SortByDate || f == SortByAmount || f == SortByCategory
}

// Toggle implements the column-header click transition: clicking the active
// field flips the order, a new field resets to descending.
func (f HistoryFilter) Toggle(field SortField) HistoryFilter {
	if f.Sort == field {
		if f.Order == OrderAsc {
			f.Order = OrderDesc
		} else {
			f.Order = OrderAsc
		}
		return f
	}
	f.Sort = field
	f.Order = OrderDesc
	return f
}

func (f HistoryFilter) matches(tx Transaction) bool {
	if f.Type != "" && f.Type != FilterAll && string(tx.Type) != f.Type {
		return false
	}
	if f.Category != "" && f.Category != FilterAll && tx.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// HistoryView derives the filtered, sorted table rows. The input list is
// never mutated; identical inputs produce identical output. Category sorts
// compare the id, not the display name. The sort is stable, so ties keep
// their relative storage order.
func HistoryView(txs []Transaction, f HistoryFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}

	field := f.Sort
	if !field.IsValid() {
		field = SortByDate
	}
	desc := f.Order != OrderAsc

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch field {
		case SortByAmount:
			less = out[i].Amount.Cents < out[j].Amount.Cents
		case SortByCategory:
			less = out[i].Category < out[j].Category
		default:
			less = out[i].Date.Before(out[j].Date)
		}
		if desc {
			return !less && !historyEqual(out[i], out[j], field)
		}
		return less
	})
	return out
}

// historyEqual reports whether two rows compare equal on the sort key, so a
// descending sort stays stable instead of flipping equal elements.
func historyEqual(a, b Transaction, field SortField) bool {
	switch field {
	case SortByAmount:
		return a.Amount.Cents == b.Amount.Cents
	case SortByCategory:
		return a.Category == b.Category
	default:
		return a.Date.Equal(b.Date)
	}
}
