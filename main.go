package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"                // loads .env automatically if present
	_ "github.com/mattn/go-sqlite3"                      // local fallback driver (sqlite file)
	_ "github.com/tursodatabase/libsql-client-go/libsql" // libSQL (Turso) driver

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"golink/config"
	"golink/db"
	"golink/helpers"
	"golink/metrics"
	"golink/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	dbConn, err := openDB(cfg, logger)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer dbConn.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	applied, err := db.Migrate(migrateCtx, dbConn)
	cancel()
	if err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", zap.Strings("versions", applied))
	}

	q := db.New(dbConn)

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		logger.Fatal("create cache", zap.Error(err))
	}

	metrics.Init()

	cw := workers.NewClickWorker(dbConn, q, logger, cfg.ClickBatchSize, cfg.ClickFlushInterval, cfg.ClickBuffer)
	cw.Start()
	defer cw.Stop()

	var limiter *helpers.RateLimiter
	if cfg.RateLimitMax > 0 {
		limiter = helpers.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		defer limiter.Stop()
	}

	srv := NewServer(dbConn, logger, q, cfg.BaseHost, cw, cache, limiter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", cfg.Port)
	go func() {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.E.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func openDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	var dbConn *sql.DB
	var err error
	if cfg.DatabaseURL != "" {
		logger.Info("using libsql (Turso) DB")
		dbConn, err = sql.Open("libsql", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("using local sqlite file", zap.String("path", cfg.DatabasePath))
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return nil, err
		}
		dbConn, err = sql.Open("sqlite3", cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		_, _ = dbConn.Exec("PRAGMA journal_mode=WAL;")
		_, _ = dbConn.Exec("PRAGMA synchronous=NORMAL;")
	}

	dbConn.SetMaxOpenConns(1)
	dbConn.SetMaxIdleConns(1)
	return dbConn, nil
}
