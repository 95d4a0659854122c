package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/config"
	"github.com/kailas-cloud/aggspec/internal/db"
	dbValkey "github.com/kailas-cloud/aggspec/internal/db/valkey"
	logpkg "github.com/kailas-cloud/aggspec/internal/logger"
	"github.com/kailas-cloud/aggspec/internal/metrics"
	"github.com/kailas-cloud/aggspec/internal/repository/catalog"
	"github.com/kailas-cloud/aggspec/internal/repository/savedsearch"
	"github.com/kailas-cloud/aggspec/internal/repository/statscache"
	chiTransport "github.com/kailas-cloud/aggspec/internal/transport/chi"
	"github.com/kailas-cloud/aggspec/internal/transport/elastic"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
	healthuc "github.com/kailas-cloud/aggspec/internal/usecase/health"
	"github.com/kailas-cloud/aggspec/internal/version"
)

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

	logger.Info("Starting aggspec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Valkey and Redis share the rueidis client; Redis speaks RESP2.
	var store db.Store
	store, err = dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
		RESP2:    cfg.Database.Driver == "redis",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEditorMetrics()
	metrics.RegisterElasticMetrics()

	props, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load property catalog", zap.Error(err))
	}
	logger.Info("Property catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("properties", props.Len()),
	)

	// Statistics provider; histograms fail with statistics_unavailable without one.
	var (
		stats        editoruc.StatisticsProvider
		searchPinger healthuc.SearchPinger
	)
	if cfg.Elasticsearch.URL != "" {
		esClient, err := elastic.NewClient(&elastic.Config{
			URL:        cfg.Elasticsearch.URL,
			Username:   cfg.Elasticsearch.Username,
			Password:   cfg.Elasticsearch.Password,
			Index:      cfg.Elasticsearch.Index,
			MaxRetries: cfg.Elasticsearch.MaxRetries,
			Timeout:    time.Duration(cfg.Elasticsearch.TimeoutSec) * time.Second,
			Logger:     logger,
		})
		if err != nil {
			logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
		}
		stats = elastic.NewStatsProvider(esClient)
		searchPinger = esClient
		logger.Info("Elasticsearch statistics enabled",
			zap.String("url", cfg.Elasticsearch.URL),
			zap.String("index", cfg.Elasticsearch.Index),
		)

		if ttl := cfg.Editor.StatisticsCacheTTLSec; ttl > 0 {
			stats = statscache.New(
				stats,
				store,
				cfg.Storage.KeyPrefix+cfg.Elasticsearch.Index+":",
				time.Duration(ttl)*time.Second,
				metrics.StatisticsCacheTotal,
				logger,
			)
			logger.Info("Statistics cache enabled", zap.Int("ttl_sec", ttl))
		}
	} else {
		logger.Warn("Elasticsearch not configured, histogram statistics disabled")
	}

	snapshots := savedsearch.New(store, cfg.Storage.KeyPrefix).
		WithTTL(time.Duration(cfg.Storage.SnapshotTTLSec) * time.Second)

	editors := editoruc.NewService(snapshots, snapshots, stats, props, logger).
		WithStatisticsTimeout(time.Duration(cfg.Editor.StatisticsTimeoutSec) * time.Second)

	healthSvc := healthuc.New(store, searchPinger)

	server := chiTransport.NewServer(editors, props, snapshots, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("Server stopped gracefully", zap.Int("open_editors", editors.Open()))
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
						Code:    chiTransport.CodeInternalError,
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
