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
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/msgsearch/internal/config"
	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/msgsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/msgsearch/internal/logger"
	"github.com/kailas-cloud/msgsearch/internal/metrics"
	messagerepo "github.com/kailas-cloud/msgsearch/internal/repository/message"
	"github.com/kailas-cloud/msgsearch/internal/repository/usercache"
	chiTransport "github.com/kailas-cloud/msgsearch/internal/transport/chi"
	"github.com/kailas-cloud/msgsearch/internal/transport/discord"
	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/msgsearch/internal/usecase/search"
	statsuc "github.com/kailas-cloud/msgsearch/internal/usecase/stats"
	useruc "github.com/kailas-cloud/msgsearch/internal/usecase/user"
	"github.com/kailas-cloud/msgsearch/internal/version"
)

func main() {
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

	indices := cfg.Search.IndexNames()
	logpkg.WithArchive(logger, indices).Info("Starting msgsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("page_size", cfg.Search.PageSize),
	)

	searchStore, err := elastic.NewStore(elastic.Config{
		CloudID:   cfg.Search.CloudID,
		Username:  cfg.Search.Username,
		Password:  cfg.Search.Password,
		Addresses: cfg.Search.Addresses,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer searchStore.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.Search.ReadinessTimeout) * time.Second
	if err := searchStore.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Search backend not ready", zap.Error(err))
	}
	logger.Info("Connected to search backend")

	if cfg.Search.EnsureResultWindow {
		if err := searchStore.EnsureResultWindow(ctx, indices, cfg.Search.MaxResultWindow); err != nil {
			// Deep pages fail until an operator raises the window by hand.
			logger.Warn("Failed to raise result window", zap.Error(err),
				zap.Int("max_result_window", cfg.Search.MaxResultWindow))
		}
	}

	metrics.RegisterSearchMetrics()

	// Pass nil interface (not typed nil pointer!) when no shared cache is configured.
	var (
		sharedCache *dbRedis.Store
		cacheTier   db.KVStore
	)
	if len(cfg.Cache.Addrs) > 0 {
		sharedCache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err), zap.String("driver", cfg.Cache.Driver))
		}
		defer sharedCache.Close()

		cacheReady := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := sharedCache.WaitForReady(ctx, cacheReady); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err), zap.Strings("addrs", cfg.Cache.Addrs))
		}
		cacheTier = sharedCache
		logger.Info("Connected to user cache", zap.String("driver", cfg.Cache.Driver))
	}

	directory, err := discord.New(discord.Config{
		Tokens:            cfg.Directory.Tokens,
		Timeout:           cfg.Directory.Timeout,
		RequestsPerSecond: cfg.Directory.RequestsPerSecond,
		Burst:             cfg.Directory.Burst,
	})
	if err != nil {
		logger.Fatal("Failed to create directory client", zap.Error(err))
	}
	if directory.Credentials() == 0 {
		logger.Warn("No Discord bot tokens configured, user lookups return fallback identities")
	}

	msgRepo := messagerepo.New(searchStore, messagerepo.Config{
		Indices:         indices,
		PageSize:        cfg.Search.PageSize,
		Timeout:         cfg.Search.Timeout,
		MaxResultWindow: cfg.Search.MaxResultWindow,
	})
	userCache := usercache.New(usercache.Config{
		Capacity:    cfg.Cache.Capacity,
		ResolvedTTL: cfg.Cache.ResolvedTTL,
		FallbackTTL: cfg.Cache.FallbackTTL,
	}, cacheTier, metrics.UserCacheTotal, logpkg.Component(logger, "usercache"))

	searchSvc := searchuc.New(msgRepo)
	statsSvc := statsuc.New(msgRepo, cfg.Stats.CacheTTL)
	userSvc := useruc.New(directory, userCache, cfg.Directory.Concurrency)

	var cachePinger healthuc.Pinger
	if sharedCache != nil {
		cachePinger = sharedCache
	}
	healthSvc := healthuc.New(searchStore, cachePinger, directory)

	server := chiTransport.NewServer(searchSvc, statsSvc, userSvc, healthSvc, version.Version, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(cfg.HTTP.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Error: "Internal server error",
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

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
