package assistant

import (
	"context"
	"sync"
	"time"

	"finassist/internal/llm"
	"finassist/internal/models"
	"finassist/internal/pagination"
	"finassist/internal/services"
)

// --- scripted model ---

type scriptedStep struct {
	resp *llm.Response
	err  error
}

// scriptedModel replays steps in order and records every request. Once the
// script runs out it repeats the last step.
type scriptedModel struct {
	mu       sync.Mutex
	steps    []scriptedStep
	requests []llm.Request
}

func (m *scriptedModel) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	i := len(m.requests) - 1
	if i >= len(m.steps) {
		i = len(m.steps) - 1
	}
	step := m.steps[i]
	return step.resp, step.err
}

func textResponse(text string) scriptedStep {
	return scriptedStep{resp: &llm.Response{Parts: []llm.Part{{Text: text}}}}
}

func callResponse(calls ...llm.FunctionCall) scriptedStep {
	resp := &llm.Response{}
	for i := range calls {
		resp.Parts = append(resp.Parts, llm.Part{Call: &calls[i]})
	}
	return scriptedStep{resp: resp}
}

// lastResults returns the function results of the final turn of req.
func lastResults(req llm.Request) []llm.FunctionResult {
	if len(req.Turns) == 0 {
		return nil
	}
	var out []llm.FunctionResult
	for _, p := range req.Turns[len(req.Turns)-1].Parts {
		if p.Result != nil {
			out = append(out, *p.Result)
		}
	}
	return out
}

// --- mock chat history ---

type chatEntry struct {
	userID, message, response string
}

type mockHistory struct {
	mu      sync.Mutex
	entries []chatEntry
	recent  []models.ChatHistory
}

func (m *mockHistory) AppendChatEntry(userID, message, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, chatEntry{userID, message, response})
}

func (m *mockHistory) RecentChatEntries(_ string, limit int) ([]models.ChatHistory, error) {
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

var _ services.ChatHistoryServicer = (*mockHistory)(nil)

// --- mock transaction service ---

type mockTransactionService struct {
	addTransactionFn func(userID string, in services.NewTransaction) (*models.Transaction, error)
	addCalls         int
}

func (m *mockTransactionService) AddTransaction(userID string, in services.NewTransaction) (*models.Transaction, error) {
	m.addCalls++
	if m.addTransactionFn != nil {
		return m.addTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) RecentTransactions(string, int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) ListTransactions(string, pagination.PageRequest, services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) TransactionsInRange(context.Context, string, *models.TransactionKind, time.Time, time.Time) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) AllTransactions(string) ([]models.Transaction, error) {
	return nil, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- mock aggregation service ---

type mockAggregationService struct {
	totalForDatesFn func(userID, kind, startDate, endDate, target string) (float64, error)
}

func (m *mockAggregationService) Total(context.Context, string, models.TransactionKind, time.Time, time.Time, string) (float64, error) {
	return 0, nil
}

func (m *mockAggregationService) TotalForDates(_ context.Context, userID, kind, startDate, endDate, target string) (float64, error) {
	if m.totalForDatesFn != nil {
		return m.totalForDatesFn(userID, kind, startDate, endDate, target)
	}
	return 0, nil
}

var _ services.AggregationServicer = (*mockAggregationService)(nil)

// --- mock report service ---

type mockReportService struct {
	generatePDFFn func(userID string) (*services.GeneratedReport, error)
}

func (m *mockReportService) MonthlySummary(context.Context, string, int, time.Month, string) (*services.PeriodSummary, error) {
	return &services.PeriodSummary{}, nil
}

func (m *mockReportService) CategoryBreakdown(context.Context, string, models.TransactionKind, time.Time, time.Time, string) (*services.CategoryBreakdown, error) {
	return &services.CategoryBreakdown{}, nil
}

func (m *mockReportService) Trends(context.Context, string, int, string) ([]services.MonthTrend, error) {
	return nil, nil
}

func (m *mockReportService) GeneratePDF(_ context.Context, userID string) (*services.GeneratedReport, error) {
	if m.generatePDFFn != nil {
		return m.generatePDFFn(userID)
	}
	return &services.GeneratedReport{Filename: "financial_report_u_20240101000000.pdf"}, nil
}

func (m *mockReportService) OpenPDF(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (m *mockReportService) GenerateCSV(context.Context, string) (*services.GeneratedReport, error) {
	return &services.GeneratedReport{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

// --- mock rates ---

type mockRates struct {
	rateFn func(from, to string) (float64, error)
}

func (m *mockRates) Rate(_ context.Context, from, to string) (float64, error) {
	if m.rateFn != nil {
		return m.rateFn(from, to)
	}
	return 1, nil
}
