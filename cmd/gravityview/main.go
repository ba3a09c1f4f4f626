package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/config"
	dbPostgres "github.com/GravityKit/GravityView-sub009/internal/db/postgres"
	dbRedis "github.com/GravityKit/GravityView-sub009/internal/db/redis"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	logpkg "github.com/GravityKit/GravityView-sub009/internal/logger"
	"github.com/GravityKit/GravityView-sub009/internal/metrics"
	entryrepo "github.com/GravityKit/GravityView-sub009/internal/repository/entry"
	"github.com/GravityKit/GravityView-sub009/internal/repository/sievecache"
	viewrepo "github.com/GravityKit/GravityView-sub009/internal/repository/view"
	chiTransport "github.com/GravityKit/GravityView-sub009/internal/transport/chi"
	entryuc "github.com/GravityKit/GravityView-sub009/internal/usecase/entry"
	healthuc "github.com/GravityKit/GravityView-sub009/internal/usecase/health"
	searchwidgetuc "github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
	"github.com/GravityKit/GravityView-sub009/internal/version"
)

// entryStore is what the composition root needs from an entry repository.
type entryStore interface {
	entryuc.Repository
	searchfield.ValueSource
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting GravityView search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("entries_driver", cfg.Entries.Driver),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	// Register search metrics explicitly (no init())
	metrics.RegisterSieveMetrics()

	// Entry storage. The entries pinger stays a nil interface for redis,
	// which the health service reads as "shared with the store".
	var (
		entries       entryStore
		entriesPinger healthuc.Pinger
	)
	switch cfg.Entries.Driver {
	case config.EntriesDriverPostgres:
		pg, err := dbPostgres.New(ctx, cfg.Entries.PostgresURL)
		if err != nil {
			logger.Fatal("Failed to open postgres entry store", zap.Error(err))
		}
		defer func() { _ = pg.Close() }()
		entries = entryrepo.NewSQL(pg)
		entriesPinger = pg
		logger.Info("Connected to postgres")
	default:
		entries = entryrepo.NewRedis(store).WithPageSize(cfg.Entries.ScanPageSize)
	}

	views := viewrepo.New(store)

	// Value source chain: repository -> instrumented -> cached
	var source searchfield.ValueSource = metrics.InstrumentSource(cfg.Entries.Driver, entries)
	entrySvc := entryuc.New(entries, views)
	if cfg.Sieve.CacheEnabled {
		cache := sievecache.New(source, store,
			time.Duration(cfg.Sieve.CacheTTLSec)*time.Second, metrics.SieveCacheTotal, logger)
		entrySvc = entrySvc.WithInvalidator(cache)
		source = cache
	}

	widgetSvc := searchwidgetuc.New(views, source).WithFallbackCounter(metrics.FallbackFieldsTotal)
	healthSvc := healthuc.New(store, entriesPinger)

	server := chiTransport.NewServer(widgetSvc, entrySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(chiTransport.AuthOptions{
		APIKeys:      cfg.Auth.APIKeys,
		PublicSearch: cfg.Auth.PublicSearch,
	}))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("search_params", len(r.URL.Query())),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
