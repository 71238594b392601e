package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"finassist/internal/assistant"
	"finassist/internal/exchange"
	"finassist/internal/handlers"
	"finassist/internal/llm"
	"finassist/internal/logger"
	"finassist/internal/middleware"
	"finassist/internal/reportstore"
	"finassist/internal/services"
	"finassist/internal/testutil"
	"finassist/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	UserID string
	Model  *scriptedModel
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// testRates maps "FROM/TO" to the rate served by the fake ExchangeRate-API.
var testRates = map[string]float64{
	"EUR/USD": 1.1,
	"USD/EUR": 0.9,
	"GBP/USD": 1.25,
}

// newRateServer serves /{key}/pair/{from}/{to} in the ExchangeRate-API shape.
func newRateServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[1] != "pair" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		rate, ok := testRates[parts[2]+"/"+parts[3]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"error","error-type":"unknown-code"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": "success", "conversion_rate": rate})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// scriptedModel replays canned responses in order, repeating the last one.
type scriptedModel struct {
	mu        sync.Mutex
	responses []*llm.Response
	requests  []llm.Request
}

func (m *scriptedModel) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return &llm.Response{}, nil
	}
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func (m *scriptedModel) script(responses ...*llm.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	m.requests = nil
}

func callTool(name string, args map[string]any) *llm.Response {
	return &llm.Response{Parts: []llm.Part{{Call: &llm.FunctionCall{Name: name, Args: args}}}}
}

func reply(text string) *llm.Response {
	return &llm.Response{Parts: []llm.Part{{Text: text}}}
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	rateServer := newRateServer(t)
	rates := exchange.NewClient(rateServer.Client(), rateServer.URL, "test-key", 5*time.Second)

	store, err := reportstore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open report store: %v", err)
	}

	userService := services.NewUserService(db)
	owner, err := userService.EnsureDefaultUser("default_user", "default@example.com")
	if err != nil {
		t.Fatalf("failed to create default user: %v", err)
	}

	loc := time.UTC
	transactionService := services.NewTransactionService(db, loc)
	chatHistoryService := services.NewChatHistoryService(db)
	aggregationService := services.NewAggregationService(transactionService, rates, loc)
	reportService := services.NewReportService(userService, transactionService, aggregationService, rates, store, services.ReportOptions{
		DefaultCurrency: "USD",
		Location:        loc,
	})

	registry, err := assistant.NewRegistry(assistant.DefaultTools(assistant.ToolDeps{
		Transactions:    transactionService,
		Aggregation:     aggregationService,
		Reports:         reportService,
		Rates:           rates,
		DefaultCurrency: "USD",
		Location:        loc,
	})...)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	model := &scriptedModel{}
	finAssistant := assistant.New(model, registry, chatHistoryService, assistant.Options{
		ContextTurns:    5,
		MaxToolRounds:   2,
		DefaultCurrency: "USD",
		Location:        loc,
	})

	chatHandler := handlers.NewChatHandler(finAssistant, chatHistoryService, 50, loc)
	transactionHandler := handlers.NewTransactionHandler(transactionService, reportService, loc)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/")
	api.Use(middleware.SingleUser(owner.ID))
	api.POST("/chat", chatHandler.Chat)
	api.GET("/chat-history", chatHandler.History)
	api.POST("/transaction", transactionHandler.CreateTransaction)
	api.GET("/transactions", transactionHandler.ListTransactions)
	api.GET("/transaction/summary", transactionHandler.MonthlySummary)
	api.GET("/transaction/breakdown", transactionHandler.CategoryBreakdown)
	api.GET("/transaction/trends", transactionHandler.Trends)
	api.GET("/reports/pdf", reportHandler.GeneratePDF)
	api.GET("/reports/pdf/:filename", reportHandler.DownloadPDF)
	api.GET("/reports/csv", reportHandler.ExportCSV)

	return &testApp{DB: db, Router: router, UserID: owner.ID, Model: model}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// addTransaction posts a transaction and fails the test unless it is created.
func (app *testApp) addTransaction(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/transaction", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["transaction"].(map[string]interface{})
}
