package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/exchange"
	"finassist/internal/models"
)

// aggregationService totals transactions in a target currency using live rates.
type aggregationService struct {
	transactions TransactionServicer
	rates        exchange.RateSource
	loc          *time.Location
}

// NewAggregationService creates a new AggregationServicer.
func NewAggregationService(transactions TransactionServicer, rates exchange.RateSource, loc *time.Location) AggregationServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &aggregationService{transactions: transactions, rates: rates, loc: loc}
}

// Total sums the amounts of kind between start and end, both calendar days
// inclusive, converted to target. Any failed conversion fails the whole sum.
func (s *aggregationService) Total(ctx context.Context, userID string, kind models.TransactionKind, start, end time.Time, target string) (float64, error) {
	if !kind.Valid() {
		return 0, apperrors.ErrInvalidTransactionType
	}
	target, err := NormalizeCurrency(target)
	if err != nil {
		return 0, err
	}

	from, until := s.dayRange(start, end)
	transactions, err := s.transactions.TransactionsInRange(ctx, userID, &kind, from, until)
	if err != nil {
		return 0, err
	}

	sum, err := sumInCurrency(ctx, s.rates, transactions, target)
	if err != nil {
		return 0, err
	}
	return sum.Round(2).InexactFloat64(), nil
}

// TotalForDates is Total with YYYY-MM-DD date strings and a textual kind, as
// supplied by tool calls.
func (s *aggregationService) TotalForDates(ctx context.Context, userID, kind, startDate, endDate, target string) (float64, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(startDate), s.loc)
	if err != nil {
		return 0, apperrors.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(endDate), s.loc)
	if err != nil {
		return 0, apperrors.ErrInvalidDateFormat
	}
	return s.Total(ctx, userID, models.TransactionKind(strings.ToLower(strings.TrimSpace(kind))), start, end, target)
}

// dayRange maps [start day, end day] onto [start 00:00, end 00:00 + 1 day).
func (s *aggregationService) dayRange(start, end time.Time) (time.Time, time.Time) {
	return startOfDay(start, s.loc), startOfDay(end, s.loc).AddDate(0, 0, 1)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// sumInCurrency converts and adds every amount. Each distinct source
// currency is quoted at most once per call.
func sumInCurrency(ctx context.Context, rates exchange.RateSource, transactions []models.Transaction, target string) (decimal.Decimal, error) {
	converted, err := convertAll(ctx, rates, transactions, target)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, converted...), nil
}

// convertAll returns each transaction's amount in target, index-aligned
// with transactions.
func convertAll(ctx context.Context, rates exchange.RateSource, transactions []models.Transaction, target string) ([]decimal.Decimal, error) {
	quoted := make(map[string]decimal.Decimal)
	out := make([]decimal.Decimal, 0, len(transactions))

	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		currency := strings.ToUpper(tx.Currency)
		if currency == target {
			out = append(out, amount)
			continue
		}

		rate, ok := quoted[currency]
		if !ok {
			r, err := rates.Rate(ctx, currency, target)
			if err != nil {
				return nil, conversionError(target, currency, err)
			}
			rate = decimal.NewFromFloat(r)
			quoted[currency] = rate
		}
		out = append(out, amount.Mul(rate))
	}
	return out, nil
}

func conversionError(target, currency string, cause error) error {
	detail := cause.Error()
	var gwErr *exchange.Error
	if errors.As(cause, &gwErr) {
		detail = gwErr.Message
	}
	msg := fmt.Sprintf("Could not calculate total in %s because conversion for %s failed. (Exchange service message: %s)", target, currency, detail)
	return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrConversionFailed, msg), cause)
}
