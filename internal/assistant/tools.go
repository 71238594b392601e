package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"finassist/internal/exchange"
	"finassist/internal/llm"
	"finassist/internal/models"
	"finassist/internal/services"
)

// Tool names as declared to the model.
const (
	ToolExchangeRate     = "get_exchange_rate"
	ToolAddTransaction   = "add_transaction"
	ToolFinancialSummary = "get_financial_summary"
	ToolPDFReport        = "generate_pdf_report"
	ToolCurrentDateTime  = "get_current_datetime"
)

// ToolDeps are the services the built-in tools call into.
type ToolDeps struct {
	Transactions    services.TransactionServicer
	Aggregation     services.AggregationServicer
	Reports         services.ReportServicer
	Rates           exchange.RateSource
	DefaultCurrency string
	Location        *time.Location
	Now             func() time.Time
}

// DefaultTools returns the finance tools in the order they are offered to
// the model.
func DefaultTools(d ToolDeps) []Tool {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.DefaultCurrency == "" {
		d.DefaultCurrency = "USD"
	}
	return []Tool{
		exchangeRateTool(d),
		addTransactionTool(d),
		financialSummaryTool(d),
		pdfReportTool(d),
		currentDateTimeTool(d),
	}
}

func exchangeRateTool(d ToolDeps) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name:        ToolExchangeRate,
			Description: "Get the current exchange rate between two currencies, e.g. USD to EUR. Uses 3-letter ISO currency codes.",
			Params: []llm.Param{
				{Name: "from_currency", Type: llm.TypeString, Required: true, Description: "3-letter uppercase code to convert from, e.g. USD."},
				{Name: "to_currency", Type: llm.TypeString, Required: true, Description: "3-letter uppercase code to convert to, e.g. EUR."},
			},
		},
		Handler: func(ctx context.Context, inv Invocation) (map[string]any, error) {
			from, err := services.NormalizeCurrency(stringArg(inv.Args, "from_currency"))
			if err != nil {
				return nil, err
			}
			to, err := services.NormalizeCurrency(stringArg(inv.Args, "to_currency"))
			if err != nil {
				return nil, err
			}
			rate, err := d.Rates.Rate(ctx, from, to)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"from_currency": from,
				"to_currency":   to,
				"rate":          rate,
				"result":        fmt.Sprintf("1 %s = %.4f %s", from, rate, to),
			}, nil
		},
	}
}

func addTransactionTool(d ToolDeps) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name: ToolAddTransaction,
			Description: "Record an income or expense. Date and time are optional and default to now. " +
				"Date format YYYY-MM-DD, time format HH:MM.",
			Params: []llm.Param{
				{Name: "amount", Type: llm.TypeNumber, Required: true, Description: "Transaction amount as a positive number."},
				{Name: "currency", Type: llm.TypeString, Required: true, Description: "3-letter uppercase currency code, e.g. USD or ETB."},
				{Name: "category", Type: llm.TypeString, Required: true, Description: "Category such as Salary, Groceries or Utilities."},
				{Name: "type", Type: llm.TypeString, Required: true, Enum: []string{"income", "expense"},
					Description: "'income' or 'expense'. Spent, paid and bought mean expense; earned and received mean income."},
				{Name: "description", Type: llm.TypeString, Required: true, Description: "Short description of the transaction."},
				{Name: "date", Type: llm.TypeString, Description: "Optional date in YYYY-MM-DD, inferred from phrases like 'yesterday'."},
				{Name: "time", Type: llm.TypeString, Description: "Optional time in HH:MM, inferred from phrases like '3pm'."},
			},
		},
		Handler: func(_ context.Context, inv Invocation) (map[string]any, error) {
			amount, err := numberArg(inv.Args, "amount")
			if err != nil {
				return nil, err
			}
			tx, err := d.Transactions.AddTransaction(inv.UserID, services.NewTransaction{
				Amount:      amount,
				Currency:    stringArg(inv.Args, "currency"),
				Category:    stringArg(inv.Args, "category"),
				Kind:        stringArg(inv.Args, "type"),
				Description: stringArg(inv.Args, "description"),
				Date:        stringArg(inv.Args, "date"),
				Time:        stringArg(inv.Args, "time"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"result":         addedMessage(tx, d.Location),
				"transaction_id": tx.ID,
			}, nil
		},
	}
}

func addedMessage(tx *models.Transaction, loc *time.Location) string {
	return fmt.Sprintf("%s of %.2f %s for '%s' added successfully at %s.",
		tx.Kind.Title(), tx.Amount, tx.Currency, tx.Description, tx.OccurredAt.In(loc).Format("2006-01-02 15:04"))
}

func financialSummaryTool(d ToolDeps) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name: ToolFinancialSummary,
			Description: "Total income or expenses between two dates, both inclusive, converted to a target currency " +
				"at current exchange rates. Target currency defaults to " + d.DefaultCurrency + ".",
			Params: []llm.Param{
				{Name: "transaction_type", Type: llm.TypeString, Required: true, Enum: []string{"income", "expense"},
					Description: "'income' or 'expense'."},
				{Name: "start_date", Type: llm.TypeString, Required: true, Description: "First day of the period, YYYY-MM-DD."},
				{Name: "end_date", Type: llm.TypeString, Required: true,
					Description: "Last day of the period, YYYY-MM-DD. Same as start_date for a single day."},
				{Name: "target_currency", Type: llm.TypeString, Description: "Optional 3-letter uppercase currency code for the total."},
			},
		},
		Handler: func(ctx context.Context, inv Invocation) (map[string]any, error) {
			kind := strings.ToLower(stringArg(inv.Args, "transaction_type"))
			start := stringArg(inv.Args, "start_date")
			end := stringArg(inv.Args, "end_date")
			target := stringArg(inv.Args, "target_currency")
			if target == "" {
				target = d.DefaultCurrency
			}
			total, err := d.Aggregation.TotalForDates(ctx, inv.UserID, kind, start, end, target)
			if err != nil {
				return nil, err
			}
			target = strings.ToUpper(target)
			return map[string]any{
				"transaction_type": kind,
				"start_date":       start,
				"end_date":         end,
				"currency":         target,
				"total":            total,
				"result":           fmt.Sprintf("Total %s from %s to %s: %.2f %s", kind, start, end, total, target),
			}, nil
		},
	}
}

func pdfReportTool(d ToolDeps) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name: ToolPDFReport,
			Description: "Generate a PDF report with an all-time summary in " + d.DefaultCurrency +
				" and the most recent transactions. Returns a filename the user can download.",
		},
		Handler: func(ctx context.Context, inv Invocation) (map[string]any, error) {
			rep, err := d.Reports.GeneratePDF(ctx, inv.UserID)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"result":       "PDF report generated successfully. Filename: " + rep.Filename,
				"filename":     rep.Filename,
				"download_url": "/reports/pdf/" + rep.Filename,
			}, nil
		},
	}
}

func currentDateTimeTool(d ToolDeps) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name: ToolCurrentDateTime,
			Description: "Current date, time, weekday and timezone. Call this before working out relative dates " +
				"such as today, yesterday or last month.",
		},
		Handler: func(context.Context, Invocation) (map[string]any, error) {
			now := d.Now().In(d.Location)
			return map[string]any{
				"date":     now.Format("2006-01-02"),
				"time":     now.Format("15:04"),
				"day_name": now.Weekday().String(),
				"timezone": d.Location.String(),
			}, nil
		},
	}
}

func stringArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// errNotANumber is returned for amounts the model sent in an unusable shape.
type errNotANumber string

func (e errNotANumber) Error() string { return fmt.Sprintf("%s must be a number.", string(e)) }

func numberArg(args map[string]any, name string) (float64, error) {
	var f float64
	switch v := args[name].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, errNotANumber(name)
		}
		f = parsed
	case string:
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(v)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, errNotANumber(name)
		}
		f = parsed
	default:
		return 0, errNotANumber(name)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotANumber(name)
	}
	return f, nil
}
