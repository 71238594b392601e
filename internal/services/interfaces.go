package services

import (
	"context"
	"time"

	"finassist/internal/models"
	"finassist/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	EnsureDefaultUser(username, email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// NewTransaction carries the raw, unvalidated fields of a transaction as they
// arrive from an HTTP body or a tool call. Date and Time are optional.
type NewTransaction struct {
	Amount      float64
	Currency    string
	Category    string
	Kind        string
	Description string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Kind     *models.TransactionKind
	Currency *string
	Category *string
}

// TransactionServicer is the ledger: validated inserts and read queries over
// a user's transactions.
type TransactionServicer interface {
	AddTransaction(userID string, in NewTransaction) (*models.Transaction, error)
	RecentTransactions(userID string, limit int) ([]models.Transaction, error)
	ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	TransactionsInRange(ctx context.Context, userID string, kind *models.TransactionKind, start, endExclusive time.Time) ([]models.Transaction, error)
	AllTransactions(userID string) ([]models.Transaction, error)
}

// ChatHistoryServicer stores completed assistant exchanges.
type ChatHistoryServicer interface {
	AppendChatEntry(userID, message, response string)
	RecentChatEntries(userID string, limit int) ([]models.ChatHistory, error)
}

// AggregationServicer sums a user's transactions in a single target currency.
type AggregationServicer interface {
	Total(ctx context.Context, userID string, kind models.TransactionKind, start, end time.Time, target string) (float64, error)
	TotalForDates(ctx context.Context, userID, kind, startDate, endDate, target string) (float64, error)
}

// PeriodSummary is income, expenses and net for one calendar month.
type PeriodSummary struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Currency string  `json:"currency"`
}

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryBreakdown splits a total by category.
type CategoryBreakdown struct {
	Categories map[string]CategoryShare `json:"categories"`
	Total      float64                  `json:"total"`
	Currency   string                   `json:"currency"`
	Period     string                   `json:"period"`
}

// MonthTrend is one point of the monthly trend series.
type MonthTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// GeneratedReport is a rendered report ready to be stored or streamed.
type GeneratedReport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportServicer builds the analytics views and report files.
type ReportServicer interface {
	MonthlySummary(ctx context.Context, userID string, year int, month time.Month, target string) (*PeriodSummary, error)
	CategoryBreakdown(ctx context.Context, userID string, kind models.TransactionKind, start, end time.Time, target string) (*CategoryBreakdown, error)
	Trends(ctx context.Context, userID string, months int, target string) ([]MonthTrend, error)
	GeneratePDF(ctx context.Context, userID string) (*GeneratedReport, error)
	OpenPDF(ctx context.Context, filename string) ([]byte, error)
	GenerateCSV(ctx context.Context, userID string) (*GeneratedReport, error)
}
