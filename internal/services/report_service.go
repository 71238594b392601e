package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/exchange"
	"finassist/internal/logger"
	"finassist/internal/models"
	"finassist/internal/report"
	"finassist/internal/reportstore"
)

const (
	recentInReport   = 10
	maxTrendMonths   = 24
	uncategorizedKey = "Uncategorized"
)

// ReportOptions configures report generation.
type ReportOptions struct {
	DefaultCurrency string
	// AllTimeStart is the first day covered by "all time" summaries.
	AllTimeStart time.Time
	Location     *time.Location
}

// reportService builds analytics views and report documents.
type reportService struct {
	users        UserServicer
	transactions TransactionServicer
	aggregation  AggregationServicer
	rates        exchange.RateSource
	store        reportstore.Store
	opts         ReportOptions
	now          func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(
	users UserServicer,
	transactions TransactionServicer,
	aggregation AggregationServicer,
	rates exchange.RateSource,
	store reportstore.Store,
	opts ReportOptions,
) ReportServicer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.AllTimeStart.IsZero() {
		opts.AllTimeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, opts.Location)
	}
	return &reportService{
		users:        users,
		transactions: transactions,
		aggregation:  aggregation,
		rates:        rates,
		store:        store,
		opts:         opts,
		now:          time.Now,
	}
}

// MonthlySummary totals one calendar month.
func (s *reportService) MonthlySummary(ctx context.Context, userID string, year int, month time.Month, target string) (*PeriodSummary, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month must describe a calendar month")
	}
	target, err := s.targetCurrency(target)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.opts.Location)
	last := first.AddDate(0, 1, -1)

	income, err := s.aggregation.Total(ctx, userID, models.TransactionKindIncome, first, last, target)
	if err != nil {
		return nil, err
	}
	expenses, err := s.aggregation.Total(ctx, userID, models.TransactionKindExpense, first, last, target)
	if err != nil {
		return nil, err
	}

	return &PeriodSummary{
		Period:   first.Format("January 2006"),
		Income:   income,
		Expenses: expenses,
		Net:      decimal.NewFromFloat(income).Sub(decimal.NewFromFloat(expenses)).Round(2).InexactFloat64(),
		Currency: target,
	}, nil
}

// CategoryBreakdown splits the kind's total between start and end (inclusive)
// by category.
func (s *reportService) CategoryBreakdown(ctx context.Context, userID string, kind models.TransactionKind, start, end time.Time, target string) (*CategoryBreakdown, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	target, err := s.targetCurrency(target)
	if err != nil {
		return nil, err
	}

	from := startOfDay(start, s.opts.Location)
	until := startOfDay(end, s.opts.Location).AddDate(0, 0, 1)
	transactions, err := s.transactions.TransactionsInRange(ctx, userID, &kind, from, until)
	if err != nil {
		return nil, err
	}
	converted, err := convertAll(ctx, s.rates, transactions, target)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for i, tx := range transactions {
		name := tx.Category
		if name == "" {
			name = uncategorizedKey
		}
		byCategory[name] = byCategory[name].Add(converted[i])
		total = total.Add(converted[i])
	}

	categories := make(map[string]CategoryShare, len(byCategory))
	for name, amount := range byCategory {
		share := CategoryShare{Amount: amount.Round(2).InexactFloat64()}
		if total.IsPositive() {
			share.Percentage = amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		categories[name] = share
	}

	return &CategoryBreakdown{
		Categories: categories,
		Total:      total.Round(2).InexactFloat64(),
		Currency:   target,
		Period:     fmt.Sprintf("%s to %s", from.Format(dateLayout), until.AddDate(0, 0, -1).Format(dateLayout)),
	}, nil
}

// Trends returns income, expenses and net for each of the last months
// calendar months, oldest first, the current month included.
func (s *reportService) Trends(ctx context.Context, userID string, months int, target string) ([]MonthTrend, error) {
	if months < 1 || months > maxTrendMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("months must be between 1 and %d", maxTrendMonths))
	}
	target, err := s.targetCurrency(target)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.opts.Location)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.opts.Location)
	first := currentMonth.AddDate(0, -(months - 1), 0)
	until := currentMonth.AddDate(0, 1, 0)

	transactions, err := s.transactions.TransactionsInRange(ctx, userID, nil, first, until)
	if err != nil {
		return nil, err
	}
	converted, err := convertAll(ctx, s.rates, transactions, target)
	if err != nil {
		return nil, err
	}

	type bucket struct{ income, expenses decimal.Decimal }
	buckets := make(map[string]*bucket, months)
	keys := make([]string, 0, months)
	for m := first; m.Before(until); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		buckets[key] = &bucket{}
		keys = append(keys, key)
	}

	for i, tx := range transactions {
		b, ok := buckets[tx.OccurredAt.In(s.opts.Location).Format("2006-01")]
		if !ok {
			continue
		}
		if tx.Kind == models.TransactionKindIncome {
			b.income = b.income.Add(converted[i])
		} else {
			b.expenses = b.expenses.Add(converted[i])
		}
	}

	trends := make([]MonthTrend, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		trends = append(trends, MonthTrend{
			Month:    key,
			Income:   b.income.Round(2).InexactFloat64(),
			Expenses: b.expenses.Round(2).InexactFloat64(),
			Net:      b.income.Sub(b.expenses).Round(2).InexactFloat64(),
		})
	}
	return trends, nil
}

// GeneratePDF renders the user's report and saves it to the report store.
func (s *reportService) GeneratePDF(ctx context.Context, userID string) (*GeneratedReport, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.opts.Location)
	summary := report.Summary{Currency: s.opts.DefaultCurrency, Since: s.opts.AllTimeStart}
	income, incErr := s.aggregation.Total(ctx, userID, models.TransactionKindIncome, s.opts.AllTimeStart, now, s.opts.DefaultCurrency)
	expenses, expErr := s.aggregation.Total(ctx, userID, models.TransactionKindExpense, s.opts.AllTimeStart, now, s.opts.DefaultCurrency)
	switch {
	case incErr != nil:
		summary.Error = incErr.Error()
	case expErr != nil:
		summary.Error = expErr.Error()
	default:
		summary.Income = income
		summary.Expenses = expenses
		summary.Net = decimal.NewFromFloat(income).Sub(decimal.NewFromFloat(expenses)).Round(2).InexactFloat64()
	}

	recent, err := s.transactions.RecentTransactions(userID, recentInReport)
	if err != nil {
		return nil, err
	}

	data, err := report.RenderPDF(report.Data{
		Username:    user.Username,
		GeneratedAt: now,
		Location:    s.opts.Location,
		Summary:     summary,
		Recent:      recent,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	name := report.PDFFilename(user.Username, now)
	if err := s.store.Save(ctx, name, data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Get().Infow("generated pdf report", "user_id", userID, "filename", name, "bytes", len(data))

	return &GeneratedReport{Filename: name, ContentType: "application/pdf", Data: data}, nil
}

// OpenPDF loads a previously generated report. Names that are not
// allow-listed report filenames never reach the store.
func (s *reportService) OpenPDF(ctx context.Context, filename string) ([]byte, error) {
	if !report.ValidPDFFilename(filename) {
		return nil, apperrors.ErrReportNotFound
	}
	data, err := s.store.Open(ctx, filename)
	if errors.Is(err, reportstore.ErrNotFound) {
		return nil, apperrors.ErrReportNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

// GenerateCSV exports every transaction of the user.
func (s *reportService) GenerateCSV(ctx context.Context, userID string) (*GeneratedReport, error) {
	transactions, err := s.transactions.AllTransactions(userID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, apperrors.ErrNoTransactions
	}

	data, err := report.RenderCSV(transactions, s.opts.Location)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &GeneratedReport{
		Filename:    report.CSVFilename(userID, s.now().In(s.opts.Location)),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

func (s *reportService) targetCurrency(target string) (string, error) {
	if target == "" {
		return s.opts.DefaultCurrency, nil
	}
	return NormalizeCurrency(target)
}
