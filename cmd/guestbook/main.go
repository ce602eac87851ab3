package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guestbook-service/guestbook"
	"guestbook-service/guestbook/application"
	"guestbook-service/guestbook/domain"
	"guestbook-service/guestbook/infra"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run monta as dependências, sobe o servidor e espera o sinal de parada.
// Retornar erro (em vez de log.Fatal) garante que os defers de limpeza rodem.
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = store.Init(initCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("store init failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stats, closeStats, err := openStats(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer closeStats()

	svc := application.Service{
		Store:  store,
		Limits: cfg.Limits(),
	}
	clientIP := guestbook.ClientIPFunc(cfg.TrustProxyHeaders)

	var h http.Handler = guestbook.Handler(guestbook.Options{
		Service:      svc,
		Stats:        stats,
		ClientIP:     clientIP,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       log,
	})
	if cfg.FloodEnabled {
		limiters := infra.NewLimiterStore(cfg.FloodRPS, cfg.FloodBurst)
		limiters.StartJanitor(ctx)
		h = guestbook.FloodGuard(guestbook.FloodOptions{
			Store:      limiters,
			Stats:      stats,
			KeyFn:      clientIP,
			RetryAfter: cfg.FloodRetryAfter,
			AddHeaders: true,
			Logger:     log,
		})(h)
	}

	mux := http.NewServeMux()
	mux.Handle("/guestbook", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	root := guestbook.ConcurrencyMiddleware(guestbook.ConcurrencyOptions{
		Max:            cfg.ConcurrencyMax,
		AcquireTimeout: cfg.ConcurrencyTimeout,
	})(mux)
	root = guestbook.RequestLogger(log)(root)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("guestbook listening",
			"addr", cfg.ListenAddr,
			"backend", cfg.StoreBackend,
			"rateLimitWindow", cfg.RateLimitWindow,
			"markup", cfg.MarkupPolicy,
			"trustProxyHeaders", cfg.TrustProxyHeaders,
		)
		log.Info("flood guard", "enabled", cfg.FloodEnabled, "rps", cfg.FloodRPS, "burst", cfg.FloodBurst)
		log.Info("concurrency", "max", cfg.ConcurrencyMax, "acquireTimeout", cfg.ConcurrencyTimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}

func openStore(cfg Config, log *slog.Logger) (domain.MessageStore, func(), error) {
	opts := []infra.StoreOption{
		infra.WithLogger(log),
		infra.WithLockTimeout(cfg.StoreLockTimeout),
	}

	switch cfg.StoreBackend {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerDir).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		closeDB := func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}
		return infra.NewBadgerStore(db, opts...), closeDB, nil
	default:
		if cfg.ProcessLockName != "" {
			opts = append(opts, infra.WithProcessLock(cfg.ProcessLockName))
		}
		return infra.NewFileStore(cfg.DataFile, opts...), func() {}, nil
	}
}

// openStats junta Prometheus e, se configurado, Redis. Redis fora do ar na
// subida é erro: melhor falhar cedo do que perder estatísticas em silêncio.
func openStats(ctx context.Context, cfg Config, reg prometheus.Registerer) (domain.StatsStore, func(), error) {
	var stores []domain.StatsStore
	closeFn := func() {}

	if cfg.MetricsEnabled {
		prom, err := infra.NewPrometheusStats(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("metrics registration failed: %w", err)
		}
		stores = append(stores, prom)
	}

	if cfg.StatsRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis stats ping error: %w", err)
		}
		closeFn = func() { _ = rdb.Close() }
		stores = append(stores, infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackClients(cfg.StatsTrackClients),
		))
	}

	if len(stores) == 0 {
		return nil, closeFn, nil
	}
	return infra.FanOut(stores...), closeFn, nil
}
