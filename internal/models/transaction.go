package models

import "time"

// TransactionKind distinguishes money in from money out. The sign of a
// transaction is carried only by its kind; Amount is always positive.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == TransactionKindIncome || k == TransactionKindExpense
}

// Title returns the capitalized kind, e.g. "Expense".
func (k TransactionKind) Title() string {
	switch k {
	case TransactionKindIncome:
		return "Income"
	case TransactionKindExpense:
		return "Expense"
	}
	return string(k)
}

// Transaction is a single ledger entry. Rows are never updated after insert.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Category    string          `gorm:"size:50" json:"category"`
	Kind        TransactionKind `gorm:"column:type;size:10;not null" json:"type"`
	Description string          `gorm:"size:200" json:"description"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
}
