package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/application/service"
	"github.com/unquiedeveloper/sg-store2/internal/config"
	"github.com/unquiedeveloper/sg-store2/internal/domain/repository"
	"github.com/unquiedeveloper/sg-store2/internal/infrastructure/billapi"
	"github.com/unquiedeveloper/sg-store2/internal/infrastructure/viewstate"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/handler"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/middleware"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/routes"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/view"
	"github.com/unquiedeveloper/sg-store2/pkg/logger"
	"github.com/unquiedeveloper/sg-store2/pkg/printer"
	"github.com/unquiedeveloper/sg-store2/pkg/receipt"
	"github.com/unquiedeveloper/sg-store2/pkg/utils"
)

func main() {
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	states, closeStates := newViewStateStore(cfg, log)
	defer closeStates()

	billClient := billapi.NewClient(cfg.BillAPI.BaseURL, cfg.BillAPI.Timeout)

	overflow, err := receipt.ParseOverflowPolicy(cfg.Receipt.Overflow)
	if err != nil {
		log.Fatal("Invalid receipt overflow policy", zap.Error(err))
	}

	location, err := time.LoadLocation(cfg.Receipt.Timezone)
	if err != nil {
		log.Warn("Unknown receipt time zone, using UTC", zap.String("timezone", cfg.Receipt.Timezone), zap.Error(err))
		location = time.UTC
	}

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("Failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	billListService := service.NewBillListService(billClient, states, cfg.List.PageSize, log.Named("bills"))
	receiptService := service.NewReceiptService(service.ReceiptSettings{
		Store: receipt.Store{
			Name:    cfg.Store.Name,
			Address: cfg.Store.Address,
			Phone:   cfg.Store.Phone,
		},
		Page:        receipt.PageSizeOf(cfg.Receipt.WidthInch, cfg.Receipt.LengthMM),
		Overflow:    overflow,
		Location:    location,
		PrinterType: cfg.Printer.Type,
		CharWidth:   cfg.Printer.CharWidth,
	}, thermalPrinter, log.Named("receipts"))

	templates, err := view.Templates()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	rateLimiter := middleware.NewSessionRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Close()

	handlers := &routes.Handlers{
		Bill: handler.NewBillHandler(billListService, receiptService, handler.BillPageOptions{
			StoreName:       cfg.Store.Name,
			AdminRole:       cfg.Auth.AdminRole,
			ReceiptFilename: cfg.Receipt.Filename,
		}, log.Named("http")),
		BillAPI: handler.NewBillAPIHandler(billListService, receiptService, cfg.Receipt.Filename),
		Printer: handler.NewPrinterHandler(receiptService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:          cfg,
		Logger:       log,
		JWTManager:   utils.NewJWTManager(cfg.Auth.JWTSecret, 24*time.Hour),
		SessionStore: middleware.NewSessionStore(&cfg.Session),
		RateLimiter:  rateLimiter,
		Templates:    templates,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("bill_api", cfg.BillAPI.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}

// newViewStateStore picks where per-session list state lives.
func newViewStateStore(cfg *config.Config, log *zap.Logger) (repository.ViewStateRepository, func()) {
	if cfg.State.Driver == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := viewstate.NewRedisClient(ctx, cfg.State.RedisURL)
		if err == nil {
			log.Info("View state stored in redis")
			return viewstate.NewRedisStore(client, cfg.State.TTL), func() { _ = client.Close() }
		}
		log.Warn("Redis unavailable, keeping view state in memory", zap.Error(err))
	}

	store := viewstate.NewMemoryStore(cfg.State.TTL)
	return store, func() { _ = store.Close() }
}
