package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/pagination"
	"finassist/internal/services"
)

// TransactionHandler handles ledger and analytics requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	reportService      services.ReportServicer
	loc                *time.Location
	now                func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler. Dates in queries
// are read in loc.
func NewTransactionHandler(transactionService services.TransactionServicer, reportService services.ReportServicer, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{
		transactionService: transactionService,
		reportService:      reportService,
		loc:                loc,
		now:                time.Now,
	}
}

// CreateTransactionRequest represents the request payload for creating a
// transaction. Kind may also be sent as "type".
type CreateTransactionRequest struct {
	Amount      *float64 `json:"amount" binding:"required"`
	Currency    string   `json:"currency" binding:"required"`
	Category    string   `json:"category" binding:"max=50"`
	Kind        string   `json:"kind"`
	Type        string   `json:"type"`
	Description string   `json:"description" binding:"max=200"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
}

// CreateTransactionResponse confirms an insert.
type CreateTransactionResponse struct {
	Message     string              `json:"message"`
	Transaction *models.Transaction `json:"transaction"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Add a transaction
// @Description Record an income or expense. Date (YYYY-MM-DD) and time (HH:MM) default to now.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} CreateTransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transaction [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = req.Type
	}

	tx, err := h.transactionService.AddTransaction(userID, services.NewTransaction{
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Kind:        kind,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateTransactionResponse{Message: "Transaction added successfully", Transaction: tx})
}

// ListTransactions returns a page of transactions
// @Summary     List transactions
// @Description Paginated transactions, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "First day, YYYY-MM-DD"
// @Param       to_date   query string false "Last day (inclusive), YYYY-MM-DD"
// @Param       type      query string false "income or expense"
// @Param       currency  query string false "3-letter currency code"
// @Param       category  query string false "Exact category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := h.parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TransactionHandler) parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseDate(v, h.loc)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseDate(v, h.loc)
		if err != nil {
			return filter, err
		}
		end := t.AddDate(0, 0, 1)
		filter.ToDate = &end
	}

	if v := c.Query("type"); v != "" {
		kind := models.TransactionKind(strings.ToLower(v))
		if !kind.Valid() {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Kind = &kind
	}

	if v := c.Query("currency"); v != "" {
		code, err := services.NormalizeCurrency(v)
		if err != nil {
			return filter, err
		}
		filter.Currency = &code
	}

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	return filter, nil
}

// SummaryQuery selects a calendar month.
type SummaryQuery struct {
	Year     int    `form:"year" binding:"omitempty,min=1"`
	Month    int    `form:"month" binding:"omitempty,min=1,max=12"`
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// MonthlySummary totals one month
// @Summary     Monthly summary
// @Description Income, expenses and net for a calendar month, converted at current rates
// @Tags        analytics
// @Produce     json
// @Param       year     query int    false "Year (default current)"
// @Param       month    query int    false "Month 1-12 (default current)"
// @Param       currency query string false "Target currency (default configured)"
// @Success     200 {object} services.PeriodSummary
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Currency conversion failed"
// @Router      /transaction/summary [get]
func (h *TransactionHandler) MonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	now := h.now().In(h.loc)
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Month == 0 {
		q.Month = int(now.Month())
	}

	summary, err := h.reportService.MonthlySummary(c.Request.Context(), userID, q.Year, time.Month(q.Month), q.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// BreakdownQuery selects a kind and an inclusive date range.
type BreakdownQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,iso_date"`
	EndDate   string `form:"end_date" binding:"omitempty,iso_date"`
	Type      string `form:"type" binding:"omitempty,transaction_kind"`
	Currency  string `form:"currency" binding:"omitempty,currency_code"`
}

// CategoryBreakdown splits a total by category
// @Summary     Category breakdown
// @Description Totals per category with percentages. Defaults to this month's expenses.
// @Tags        analytics
// @Produce     json
// @Param       start_date query string false "First day, YYYY-MM-DD"
// @Param       end_date   query string false "Last day (inclusive), YYYY-MM-DD"
// @Param       type       query string false "income or expense (default expense)"
// @Param       currency   query string false "Target currency (default configured)"
// @Success     200 {object} services.CategoryBreakdown
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Currency conversion failed"
// @Router      /transaction/breakdown [get]
func (h *TransactionHandler) CategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q BreakdownQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	now := h.now().In(h.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	end := start.AddDate(0, 1, -1)
	if q.StartDate != "" {
		if start, err = parseDate(q.StartDate, h.loc); err != nil {
			respondWithError(c, err)
			return
		}
	}
	if q.EndDate != "" {
		if end, err = parseDate(q.EndDate, h.loc); err != nil {
			respondWithError(c, err)
			return
		}
	}
	if end.Before(start) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date"))
		return
	}

	kind := models.TransactionKindExpense
	if q.Type != "" {
		kind = models.TransactionKind(strings.ToLower(q.Type))
	}

	breakdown, err := h.reportService.CategoryBreakdown(c.Request.Context(), userID, kind, start, end, q.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// TrendsResponse wraps the monthly series.
type TrendsResponse struct {
	Months []services.MonthTrend `json:"months"`
}

// Trends returns a monthly series
// @Summary     Monthly trends
// @Description Income, expenses and net for each of the last N months, oldest first
// @Tags        analytics
// @Produce     json
// @Param       months   query int    false "Number of months, 1-24 (default 6)"
// @Param       currency query string false "Target currency (default configured)"
// @Success     200 {object} TrendsResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Currency conversion failed"
// @Router      /transaction/trends [get]
func (h *TransactionHandler) Trends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 6
	if v := c.Query("months"); v != "" {
		n, parseErr := strconv.Atoi(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a number"))
			return
		}
		months = n
	}

	series, err := h.reportService.Trends(c.Request.Context(), userID, months, c.Query("currency"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrendsResponse{Months: series})
}
