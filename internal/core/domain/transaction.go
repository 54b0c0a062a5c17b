package domain

import (
	"strings"
	"time"
)

// TransactionKind tells income from expense.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// ParseTransactionKind accepts the kind in any letter case.
func ParseTransactionKind(s string) (TransactionKind, bool) {
	switch TransactionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, true
	case KindExpense:
		return KindExpense, true
	}
	return "", false
}

// Transaction is a single ledger entry. OwnerID is fixed at creation.
type Transaction struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"user_id"`
	Counterparty string          `json:"recipient_sender"`
	Category     string          `json:"category"`
	Date         time.Time       `json:"transaction_date"`
	Amount       float64         `json:"amount"`
	Kind         TransactionKind `json:"transaction_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate checks the fields every stored transaction must carry.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Counterparty) == "" {
		return NewValidationError("recipient_sender", "is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		return NewValidationError("category", "is required")
	}
	if t.Date.IsZero() {
		return NewValidationError("transaction_date", "is required")
	}
	if _, ok := ParseTransactionKind(string(t.Kind)); !ok {
		return NewValidationError("transaction_type", "must be one of: income expense")
	}
	return nil
}

// TransactionPatch holds the fields of a partial update. Nil means "leave as is".
// The owner is not patchable.
type TransactionPatch struct {
	Counterparty *string
	Category     *string
	Date         *time.Time
	Amount       *float64
	Kind         *TransactionKind
}

// Validate rejects explicit blanks; absent fields are always fine.
func (p TransactionPatch) Validate() error {
	if p.Counterparty != nil && strings.TrimSpace(*p.Counterparty) == "" {
		return NewValidationError("recipient_sender", "must not be empty")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return NewValidationError("category", "must not be empty")
	}
	if p.Date != nil && p.Date.IsZero() {
		return NewValidationError("transaction_date", "must not be empty")
	}
	if p.Kind != nil {
		if _, ok := ParseTransactionKind(string(*p.Kind)); !ok {
			return NewValidationError("transaction_type", "must be one of: income expense")
		}
	}
	return nil
}

// Apply merges the patch into t in place.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Counterparty != nil {
		t.Counterparty = *p.Counterparty
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
}

// SortOrder is the closed set of list orderings.
type SortOrder string

const (
	SortLatest  SortOrder = "latest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
	SortAZ      SortOrder = "a-z"
	SortZA      SortOrder = "z-a"
)

// ParseSortOrder maps a caller-supplied key onto a SortOrder. Keys match
// exactly; anything else, including "", falls back to SortLatest.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortLatest, SortOldest, SortHighest, SortLowest, SortAZ, SortZA:
		return o
	}
	return SortLatest
}

// Categories is the fixed list offered to clients. It is not enforced on writes.
var Categories = []string{
	"Entertainment",
	"Bills",
	"Groceries",
	"Dining Out",
	"Transportation",
	"Personal Care",
	"Education",
	"Lifestyle",
	"Shopping",
	"General",
}
