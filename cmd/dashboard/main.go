// cmd/dashboard/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"psb-dashboard/internal/api"
	"psb-dashboard/internal/common/config"
	"psb-dashboard/internal/common/database"
	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/observability"
	cplookup "psb-dashboard/internal/services/cp-lookup"
	cronforward "psb-dashboard/internal/services/cron-forward"
	filetransfer "psb-dashboard/internal/services/file-transfer"
	frqcorrelate "psb-dashboard/internal/services/frq-correlate"
	frqlookup "psb-dashboard/internal/services/frq-lookup"
	invoicefetch "psb-dashboard/internal/services/invoice-fetch"
	"psb-dashboard/internal/store/archive"
)

const (
	summaryCollection = "transaction_summary"
	partnerCollection = "channel_partners"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting PSB dashboard...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init MongoDB with retry ---
	var mongoClient *database.MongoClient
	err = retryWithBackoff(func() error {
		var err error
		mongoClient, err = database.NewMongo(ctx, cfg.Database.Mongo)
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "MongoDB connection")

	if err != nil {
		zapLog.Fatal("mongodb failed after retries", zap.Error(err))
	}
	defer mongoClient.Close(ctx)
	zapLog.Info("MongoDB connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire Services ---
	frqService := frqlookup.NewService(
		&frqlookup.Config{
			Timeout:  time.Duration(cfg.Services.FRQLookup.Timeout) * time.Millisecond,
			CacheTTL: time.Duration(cfg.Services.FRQLookup.CacheTTL) * time.Second,
		},
		pg.DB, redis.Client, log,
	)

	invoiceService := invoicefetch.NewService(
		&invoicefetch.Config{
			Timeout: time.Duration(cfg.Services.InvoiceFetch.Timeout) * time.Millisecond,
		},
		mongoClient.Collection(summaryCollection), log,
	)

	correlateService := frqcorrelate.NewService(
		&frqcorrelate.Config{
			MaxConcurrency: cfg.Services.Correlate.MaxConcurrency,
		},
		frqService, log,
	)

	cpService := cplookup.NewService(
		time.Duration(cfg.Services.InvoiceFetch.Timeout)*time.Millisecond,
		mongoClient.Collection(partnerCollection), log,
	)

	cronService := cronforward.NewService(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey,
		time.Duration(cfg.Upstream.Timeout)*time.Millisecond,
		log,
	)

	fileService := filetransfer.NewService(cfg.SFTP, log)

	archiveStore := archive.NewStore(cfg.Services.Archive.Index, esClient.Client, log)

	handler := api.NewHandler(
		invoiceService,
		correlateService,
		frqService,
		cpService,
		cronService,
		fileService,
		archiveStore,
		obs,
		log,
	)

	zapLog.Info("All services wired successfully")

	// --- Metrics & Debug Server ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening on :9090")
		if err := http.ListenAndServe(":9090", nil); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- API Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Dashboard stopped gracefully")
}
