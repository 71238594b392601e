package services

import (
	"context"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/pagination"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer. Dates supplied
// without an offset are interpreted in loc.
func NewTransactionService(db *gorm.DB, loc *time.Location) TransactionServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &transactionService{db: db, loc: loc, now: time.Now}
}

// AddTransaction validates and inserts a single transaction.
func (s *transactionService) AddTransaction(userID string, in NewTransaction) (*models.Transaction, error) {
	occurredAt, err := s.resolveOccurredAt(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	kind := models.TransactionKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !kind.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	currency, err := NormalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	amount := math.Abs(in.Amount)
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.ErrInvalidAmount
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Category:    strings.TrimSpace(in.Category),
		Kind:        kind,
		Description: strings.TrimSpace(in.Description),
		OccurredAt:  occurredAt,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// resolveOccurredAt combines the optional date and time strings, filling
// whichever is absent from the current clock.
func (s *transactionService) resolveOccurredAt(date, clock string) (time.Time, error) {
	now := s.now().In(s.loc).Truncate(time.Minute)

	day := now
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, s.loc)
		if err != nil {
			return time.Time{}, apperrors.ErrInvalidDateFormat
		}
		day = parsed
	}

	hour, minute := now.Hour(), now.Minute()
	if clock = strings.TrimSpace(clock); clock != "" {
		parsed, err := time.Parse(timeLayout, clock)
		if err != nil {
			return time.Time{}, apperrors.ErrInvalidTimeFormat
		}
		hour, minute = parsed.Hour(), parsed.Minute()
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.loc), nil
}

// NormalizeCurrency upper-cases a currency code and checks it is exactly
// three ASCII letters.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", apperrors.ErrInvalidCurrency
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", apperrors.ErrInvalidCurrency
		}
	}
	return code, nil
}

// RecentTransactions returns up to limit transactions, newest first.
func (s *transactionService) RecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListTransactions retrieves a paginated, filtered list of a user's transactions.
func (s *transactionService) ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("occurred_at DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("occurred_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("occurred_at < ?", *f.ToDate)
	}
	if f.Kind != nil {
		q = q.Where("type = ?", *f.Kind)
	}
	if f.Currency != nil {
		q = q.Where("currency = ?", strings.ToUpper(*f.Currency))
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	return q
}

// TransactionsInRange returns transactions with start <= occurred_at < endExclusive.
// A nil kind matches both kinds.
func (s *transactionService) TransactionsInRange(ctx context.Context, userID string, kind *models.TransactionKind, start, endExclusive time.Time) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("occurred_at >= ? AND occurred_at < ?", start, endExclusive)
	if kind != nil {
		q = q.Where("type = ?", *kind)
	}

	var transactions []models.Transaction
	if err := q.Order("occurred_at ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// AllTransactions returns every transaction of a user, newest first.
func (s *transactionService) AllTransactions(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("occurred_at DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
