package models

// User is the owner of a ledger. The single-tenant deployment has exactly one.
type User struct {
	Base
	Username     string        `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string        `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
