package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/wesplit/internal/auth"
	"github.com/mmynk/wesplit/internal/cache"
	"github.com/mmynk/wesplit/internal/config"
	"github.com/mmynk/wesplit/internal/export"
	"github.com/mmynk/wesplit/internal/fx"
	"github.com/mmynk/wesplit/internal/metrics"
	"github.com/mmynk/wesplit/internal/middleware"
	"github.com/mmynk/wesplit/internal/service"
	"github.com/mmynk/wesplit/internal/storage/sqlstore"
	"github.com/mmynk/wesplit/pkg/api"
	"github.com/mmynk/wesplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup().Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Configure(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var balanceCache *cache.Cache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		balanceCache = cache.New(client, cfg.CacheTTL)
		defer balanceCache.Close()
		logger.Info("Cache initialized", "ttl", cfg.CacheTTL)
	} else {
		logger.Warn("REDIS_URL not set, running without cache")
	}

	rates := fx.NewProvider(store, balanceCache, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	opts := []connect.HandlerOption{
		api.WithJSON(),
		connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.RequireAuth(jwtManager, api.PublicProcedures...),
			middleware.LoggingInterceptor(logger),
		),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.With(middleware.RequireAuthHTTP(jwtManager)).
		Get("/export/groups/{groupID}.csv", export.NewHandler(store, logger).ServeHTTP)

	r.Mount(api.NewGroupServiceHandler(service.NewGroupService(store, logger), opts...))
	r.Mount(api.NewExpenseServiceHandler(service.NewExpenseService(store, logger), opts...))
	r.Mount(api.NewBalanceServiceHandler(service.NewBalanceService(store, balanceCache, rates, logger), opts...))
	r.Mount(api.NewCurrencyServiceHandler(service.NewCurrencyService(store, rates, logger), opts...))

	var wg sync.WaitGroup
	if cfg.FxSourceURL != "" {
		source := fx.NewHTTPSource(cfg.FxSourceURL, nil).WithBase(cfg.FxBase)
		refresher := fx.NewRefresher(source, rates, cfg.FxRefreshInterval, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			refresher.Start(ctx)
		}()
	}

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Connect server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	wg.Wait()
	logger.Info("Server exited")
}

func openStore(cfg *config.Config) (*sqlstore.SQLStore, error) {
	if cfg.DBDriver == sqlstore.DriverPostgres {
		return sqlstore.Open(sqlstore.DriverPostgres, cfg.DatabaseURL)
	}
	return sqlstore.New(cfg.DBPath)
}
