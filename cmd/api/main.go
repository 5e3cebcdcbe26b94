// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sehatindo/apotek-be/internal/adapters/db"
	redis_a "github.com/sehatindo/apotek-be/internal/adapters/redis_adapter"
	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/internal/core/services"
	"github.com/sehatindo/apotek-be/internal/handlers"
	"github.com/sehatindo/apotek-be/internal/handlers/middleware"
	"github.com/sehatindo/apotek-be/internal/pkg/config"
	"github.com/sehatindo/apotek-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting pharmacy inventory service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	server := setupHTTPServer(cfg, deps, appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database           ports.Database
	redisClient        *redis.Client
	redisCache         ports.CacheRepository
	cacheManager       *redis_a.CacheManager
	asynqClient        *asynq.Client
	storageClient      storage.StorageClient
	inventoryHandler   *handlers.InventoryHandler
	transactionHandler *handlers.TransactionHandler
	reportHandler      *handlers.ReportHandler
	dashboardHandler   *handlers.DashboardHandler
	importHandler      *handlers.ImportHandler
	exportHandler      *handlers.ExportHandler
	healthHandler      *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)
	deps.cacheManager = redis_a.NewCacheManager(deps.redisCache, slogger)

	deps.asynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	})

	storageClient, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.storageClient = storageClient

	// Repositories
	inventoryRepo := db.NewInventoryRepository(database, slogger)
	transactionRepo := db.NewTransactionRepository(database, slogger)
	reportRepo := db.NewReportRepository(database, slogger)
	jobRepo := db.NewImportJobRepository(database, slogger)

	// Services
	inventoryService := services.NewInventoryService(inventoryRepo, slogger)
	transactionService := services.NewTransactionService(transactionRepo, slogger)
	reportService := services.NewReportService(reportRepo, deps.redisCache, slogger)

	// Handlers
	deps.inventoryHandler = handlers.NewInventoryHandler(inventoryService, slogger)
	deps.transactionHandler = handlers.NewTransactionHandler(transactionService, slogger)
	deps.reportHandler = handlers.NewReportHandler(reportService, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(reportService, slogger)
	deps.importHandler = handlers.NewImportHandler(jobRepo, storageClient, deps.asynqClient,
		cfg.FileProcessing.ExcelMaxSizeMB, slogger)
	deps.exportHandler = handlers.NewExportHandler(jobRepo, storageClient, deps.asynqClient, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, deps.redisCache, cfg.App.Version, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	slogger := appLogger.Logger
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Middleware chain, innermost first
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(appLogger)(handler)
		handler = middleware.Recovery(slogger)(handler)
	}

	if cfg.Server.RequestTimeout > 0 {
		handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)
	}

	if cfg.Server.EnableCompression {
		handler = middleware.Compression(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Writes invalidate the cached report aggregates so the dashboard
	// reflects stock movements before the TTL runs out
	flush := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r)
			_ = deps.cacheManager.InvalidateReportCaches(r.Context())
		}
	}

	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Ready)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Inventory
	mux.HandleFunc("GET "+apiV1+"/inventory", deps.inventoryHandler.ListItems)
	mux.HandleFunc("POST "+apiV1+"/inventory", flush(deps.inventoryHandler.SaveItem))
	mux.HandleFunc("POST "+apiV1+"/inventory/bulk", flush(deps.inventoryHandler.BulkUpsert))
	mux.HandleFunc("GET "+apiV1+"/inventory/{id}", deps.inventoryHandler.GetItem)
	mux.HandleFunc("PUT "+apiV1+"/inventory/{id}", flush(deps.inventoryHandler.UpdateItem))
	mux.HandleFunc("DELETE "+apiV1+"/inventory/{id}", flush(deps.inventoryHandler.DeleteItem))

	// Sales transactions
	mux.HandleFunc("GET "+apiV1+"/transactions", deps.transactionHandler.List)
	mux.HandleFunc("POST "+apiV1+"/transactions", flush(deps.transactionHandler.Create))
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}", deps.transactionHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/transactions/{id}", flush(deps.transactionHandler.Update))
	mux.HandleFunc("DELETE "+apiV1+"/transactions/{id}", flush(deps.transactionHandler.Delete))

	// Reports
	mux.HandleFunc("GET "+apiV1+"/reports/expiring", deps.reportHandler.Expiring)
	mux.HandleFunc("GET "+apiV1+"/reports/low-stock", deps.reportHandler.LowStock)
	mux.HandleFunc("GET "+apiV1+"/reports/abc", deps.reportHandler.ABC)
	mux.HandleFunc("GET "+apiV1+"/reports/profit", deps.reportHandler.Profit)
	mux.HandleFunc("GET "+apiV1+"/reports/supplier-comparison", deps.reportHandler.SupplierComparison)
	mux.HandleFunc("GET "+apiV1+"/reports/bpjs", deps.reportHandler.BPJS)

	// Dashboard
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.Stats)

	// Import / export
	mux.HandleFunc("POST "+apiV1+"/import/excel", deps.importHandler.ImportExcel)
	mux.HandleFunc("POST "+apiV1+"/import/invoice-pdf", deps.importHandler.ImportInvoicePDF)
	mux.HandleFunc("GET "+apiV1+"/import/status/{id}", deps.importHandler.Status)
	mux.HandleFunc("POST "+apiV1+"/export/{format}", deps.exportHandler.Start)
	mux.HandleFunc("GET "+apiV1+"/export/download/{id}", deps.exportHandler.Download)

	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrator, err := db.NewMigrator(&db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
	}, slogger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	return migrator.Up(ctx)
}
