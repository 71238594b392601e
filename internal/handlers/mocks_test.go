package handlers

import (
	"context"
	"time"

	"finassist/internal/models"
	"finassist/internal/pagination"
	"finassist/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	addTransactionFn   func(userID string, in services.NewTransaction) (*models.Transaction, error)
	listTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) AddTransaction(userID string, in services.NewTransaction) (*models.Transaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) RecentTransactions(string, int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) ListTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(userID, page, filter)
	}
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

// --- mock report service ---

type mockReportService struct {
	monthlySummaryFn    func(userID string, year int, month time.Month, target string) (*services.PeriodSummary, error)
	categoryBreakdownFn func(userID string, kind models.TransactionKind, start, end time.Time, target string) (*services.CategoryBreakdown, error)
	trendsFn            func(userID string, months int, target string) ([]services.MonthTrend, error)
	generatePDFFn       func(userID string) (*services.GeneratedReport, error)
	openPDFFn           func(filename string) ([]byte, error)
	generateCSVFn       func(userID string) (*services.GeneratedReport, error)

	openCalls int
}

func (m *mockReportService) MonthlySummary(_ context.Context, userID string, year int, month time.Month, target string) (*services.PeriodSummary, error) {
	if m.monthlySummaryFn != nil {
		return m.monthlySummaryFn(userID, year, month, target)
	}
	return &services.PeriodSummary{}, nil
}

func (m *mockReportService) CategoryBreakdown(_ context.Context, userID string, kind models.TransactionKind, start, end time.Time, target string) (*services.CategoryBreakdown, error) {
	if m.categoryBreakdownFn != nil {
		return m.categoryBreakdownFn(userID, kind, start, end, target)
	}
	return &services.CategoryBreakdown{Categories: map[string]services.CategoryShare{}}, nil
}

func (m *mockReportService) Trends(_ context.Context, userID string, months int, target string) ([]services.MonthTrend, error) {
	if m.trendsFn != nil {
		return m.trendsFn(userID, months, target)
	}
	return []services.MonthTrend{}, nil
}

func (m *mockReportService) GeneratePDF(_ context.Context, userID string) (*services.GeneratedReport, error) {
	if m.generatePDFFn != nil {
		return m.generatePDFFn(userID)
	}
	return &services.GeneratedReport{Filename: "financial_report_default_user_20240315093005.pdf", ContentType: "application/pdf"}, nil
}

func (m *mockReportService) OpenPDF(_ context.Context, filename string) ([]byte, error) {
	m.openCalls++
	if m.openPDFFn != nil {
		return m.openPDFFn(filename)
	}
	return []byte("%PDF-1.3"), nil
}

func (m *mockReportService) GenerateCSV(_ context.Context, userID string) (*services.GeneratedReport, error) {
	if m.generateCSVFn != nil {
		return m.generateCSVFn(userID)
	}
	return &services.GeneratedReport{Filename: "financial_transactions_u_20240315093005.csv", ContentType: "text/csv", Data: []byte("a,b\n")}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

// --- mock chat history service ---

type mockChatHistoryService struct {
	recentFn func(userID string, limit int) ([]models.ChatHistory, error)
	appended int
}

func (m *mockChatHistoryService) AppendChatEntry(string, string, string) {
	m.appended++
}

func (m *mockChatHistoryService) RecentChatEntries(userID string, limit int) ([]models.ChatHistory, error) {
	if m.recentFn != nil {
		return m.recentFn(userID, limit)
	}
	return nil, nil
}

var _ services.ChatHistoryServicer = (*mockChatHistoryService)(nil)

// --- mock responder ---

type mockResponder struct {
	respondFn func(userID, message string) string
	calls     int
}

func (m *mockResponder) Respond(_ context.Context, userID, message string) string {
	m.calls++
	if m.respondFn != nil {
		return m.respondFn(userID, message)
	}
	return "ok"
}

var _ Responder = (*mockResponder)(nil)
