package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finassist/internal/assistant"
	"finassist/internal/config"
	"finassist/internal/database"
	_ "finassist/internal/docs" // Import swagger docs
	"finassist/internal/exchange"
	"finassist/internal/handlers"
	"finassist/internal/llm"
	"finassist/internal/logger"
	"finassist/internal/middleware"
	"finassist/internal/reportstore"
	"finassist/internal/services"
	"finassist/internal/telegram"
	"finassist/internal/validator"
)

// @title           Finance Assistant API
// @version         1.0
// @description     Personal finance ledger with a conversational assistant, multi-currency analytics and PDF/CSV reports.

// @host      localhost:8080
// @BasePath  /

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc := appConfig.Location()
	allTimeStart, _ := time.ParseInLocation("2006-01-02", appConfig.AllTimeStartDate, loc)

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(appConfig.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	owner, err := userService.EnsureDefaultUser(appConfig.DefaultUsername, appConfig.DefaultUserEmail)
	if err != nil {
		return fmt.Errorf("failed to ensure default user: %w", err)
	}

	if appConfig.ExchangeRateAPIKey == "" {
		log.Warn("EXCHANGE_RATE_API_KEY is not set, cross-currency totals will fail")
	}
	rates := exchange.NewClient(nil, appConfig.ExchangeRateAPIURL, appConfig.ExchangeRateAPIKey, appConfig.ExchangeRateTimeout)

	store, closeStore, err := openReportStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	transactionService := services.NewTransactionService(db, loc)
	chatHistoryService := services.NewChatHistoryService(db)
	aggregationService := services.NewAggregationService(transactionService, rates, loc)
	reportService := services.NewReportService(userService, transactionService, aggregationService, rates, store, services.ReportOptions{
		DefaultCurrency: appConfig.DefaultCurrency,
		AllTimeStart:    allTimeStart,
		Location:        loc,
	})

	janitor, err := reportstore.NewJanitor(store, appConfig.ReportJanitorSchedule, appConfig.ReportRetention)
	if err != nil {
		return err
	}
	janitor.Start()
	defer janitor.Stop()

	// Assistant
	var model llm.Model
	if appConfig.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set, the assistant will report itself unavailable")
	} else {
		gemini, err := llm.NewGemini(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel, appConfig.ModelTimeout)
		if err != nil {
			log.Errorw("failed to create language model client, assistant disabled", "error", err)
		} else {
			model = gemini
		}
	}

	registry, err := assistant.NewRegistry(assistant.DefaultTools(assistant.ToolDeps{
		Transactions:    transactionService,
		Aggregation:     aggregationService,
		Reports:         reportService,
		Rates:           rates,
		DefaultCurrency: appConfig.DefaultCurrency,
		Location:        loc,
	})...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	finAssistant := assistant.New(model, registry, chatHistoryService, assistant.Options{
		ContextTurns:    appConfig.ChatContextTurns,
		MaxToolRounds:   appConfig.MaxToolRounds,
		DefaultCurrency: appConfig.DefaultCurrency,
		AllTimeStart:    allTimeStart,
		Location:        loc,
	})

	// Telegram relay
	if appConfig.TelegramBotToken != "" {
		bot, err := telegram.NewBot(appConfig.TelegramBotToken)
		if err != nil {
			log.Errorw("telegram relay disabled", "error", err)
		} else {
			relay := telegram.NewRelay(bot, finAssistant, owner.ID, appConfig.TelegramAllowFrom)
			relay.Start(ctx)
			defer relay.Stop()
		}
	}

	// Handlers
	chatHandler := handlers.NewChatHandler(finAssistant, chatHistoryService, appConfig.ChatHistoryLimit, loc)
	transactionHandler := handlers.NewTransactionHandler(transactionService, reportService, loc)
	reportHandler := handlers.NewReportHandler(reportService)

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

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

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting finance assistant on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openReportStore returns the GCS store when REPORTS_BUCKET is set and the
// local directory store otherwise.
func openReportStore(ctx context.Context, cfg *config.Config) (reportstore.Store, func(), error) {
	if cfg.ReportsBucket != "" {
		gcs, err := reportstore.NewGCS(ctx, cfg.ReportsBucket, cfg.ReportsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open report bucket: %w", err)
		}
		logger.Get().Infow("storing reports in GCS", "bucket", cfg.ReportsBucket)
		return gcs, func() { _ = gcs.Close() }, nil
	}

	local, err := reportstore.NewLocal(cfg.ReportsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open reports directory: %w", err)
	}
	return local, func() {}, nil
}
