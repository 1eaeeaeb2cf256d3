package core

import (
	"errors"
	"strings"
	"time"
)

const (
	UserPrivate  UserType = "PRIVATE"
	UserBusiness UserType = "BUSINESS"
	UserUnset    UserType = "UNSET"

	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

type (
	// UserType is the active profile. It selects the category taxonomy and
	// the dashboard variant. UNSET means the splash/profile screen.
	UserType string

	// TransactionType decides the sign convention: incomes add to the
	// balance, expenses subtract. The amount itself is always positive.
	TransactionType string

	Transaction struct {
		ID          string          `json:"id"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
		// Deductible is set only for business expenses. nil everywhere
		// else, so the flag cannot leak into private or income records.
		Deductible *bool `json:"isDeductible,omitempty"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrEmptyID         = errors.New("empty transaction id")
	ErrDeductibleScope = errors.New("deductible flag outside business expense")
)

// DefaultDescription is the placeholder used when a transaction is submitted
// with a blank description.
func (t TransactionType) DefaultDescription() string {
	if t == TypeIncome {
		return "Entrata"
	}
	return "Uscita"
}

func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (u UserType) IsValid() bool {
	return u == UserPrivate || u == UserBusiness || u == UserUnset
}

// ParseUserType maps a stored or submitted token to a profile. Unknown tokens
// (including the empty string for a missing key) come back as UNSET.
func ParseUserType(s string) UserType {
	switch UserType(strings.TrimSpace(s)) {
	case UserPrivate:
		return UserPrivate
	case UserBusiness:
		return UserBusiness
	default:
		return UserUnset
	}
}

// NewTransaction builds a transaction from a user submission. The description
// falls back to the type placeholder, the date is the creation instant, and
// the deductible flag is kept only for (BUSINESS, EXPENSE).
func NewTransaction(id string, amount Money, description, category string, txType TransactionType, profile UserType, deductible bool) (Transaction, error) {
	if err := amount.Validate(); err != nil {
		return Transaction{}, err
	}
	if !txType.IsValid() {
		return Transaction{}, ErrInvalidType
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = txType.DefaultDescription()
	}
	tx := Transaction{
		ID:          id,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        time.Now().UTC(),
		Type:        txType,
	}
	if profile == UserBusiness && txType == TypeExpense {
		tx.Deductible = &deductible
	}
	return tx, tx.Validate()
}

// IsDeductible reads the business-expense flag; nil counts as false.
func (t Transaction) IsDeductible() bool {
	return t.Deductible != nil && *t.Deductible
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Deductible != nil && t.Type != TypeExpense {
		return ErrDeductibleScope
	}
	return nil
}
