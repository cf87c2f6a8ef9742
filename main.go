// RGS - Remote Gaming Server
//
// Entry point: loads configuration, wires the store backend (in-memory or Postgres), the
// session manager, rate limiter and HTTP handlers, then serves with graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexbotov/rgs/internal/api"
	"github.com/alexbotov/rgs/internal/auth"
	"github.com/alexbotov/rgs/internal/config"
	"github.com/alexbotov/rgs/internal/ipguard"
	"github.com/alexbotov/rgs/internal/logging"
	"github.com/alexbotov/rgs/internal/metrics"
	"github.com/alexbotov/rgs/internal/ratelimit"
	"github.com/alexbotov/rgs/internal/sessionmgr"
	"github.com/alexbotov/rgs/internal/sqlstore"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	printBanner()

	cfg := config.Load()
	log := logging.New("rgs", cfg.Logging.Level, cfg.Logging.Format)
	entry := log.Entry()
	entry.WithField("bind_addr", cfg.Server.BindAddr).Info("configuration loaded")

	sessions, wallets, events, experiences, fingerprints := wireStores(cfg, entry)

	tokens, err := wireTokenChecker(cfg)
	if err != nil {
		entry.WithError(err).Fatal("failed to load API key file")
	}

	limiter := ratelimit.New(uint32(cfg.Game.RateLimitRPM), ratelimit.DefaultWindow)
	guard := ipguard.New(cfg.Game.IPBurstPerSecond, cfg.Game.IPBurstSize)
	if guard.Enabled() {
		entry.Info("IP burst guard enabled")
	}
	counters := metrics.New()

	registry := prometheus.NewRegistry()
	metrics.NewPrometheusExporter(counters, registry)

	sessionMgr := sessionmgr.New(sessions, entry)

	handler := api.New(api.Dependencies{
		Sessions:       sessionMgr,
		Wallets:        wallets,
		Events:         events,
		Experiences:    experiences,
		Fingerprints:   fingerprints,
		Tokens:         tokens,
		Limiter:        limiter,
		IPGuard:        guard,
		Counters:       counters,
		CostPerSpin:    cfg.Game.CostPerSpin,
		LikenessWeight: cfg.Game.HumanLikenessWeight,
		Log:            entry,
	})
	router := handler.SetupRouter()
	entry.Info("API routes configured")

	server := &http.Server{
		Addr:         cfg.Server.BindAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, registry, entry)
	}

	go func() {
		entry.WithField("addr", cfg.Server.BindAddr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			entry.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	entry.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		entry.WithError(err).Warn("server forced to shutdown")
	}
	entry.Info("server stopped gracefully")
}

// wireStores selects the in-memory or Postgres-backed store chain depending on whether a
// database DSN was configured; absent DATABASE_URL/PG* selects in-memory with a warning.
func wireStores(cfg *config.Config, log interface {
	Warn(...interface{})
	Info(...interface{})
	Fatalf(string, ...interface{})
}) (store.SessionStore, store.WalletStore, store.EventStore, store.ExperienceStore, store.FingerprintStore) {
	if cfg.Database.DSN == "" {
		log.Warn("DATABASE_URL/PGHOST not set, using in-memory stores (data does not survive restart)")
		return store.NewInMemorySessionStore(),
			store.NewInMemoryWalletStore(),
			store.NewInMemoryEventStore(),
			store.NewInMemoryExperienceStore(),
			store.NewInMemoryFingerprintStore()
	}

	db, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Info("database connected and migrated")

	return sqlstore.NewSessionStore(db.DB),
		sqlstore.NewWalletStore(db.DB),
		sqlstore.NewEventStore(db.DB),
		sqlstore.NewExperienceStore(db.DB),
		sqlstore.NewFingerprintStore(db.DB)
}

// wireTokenChecker prefers a bcrypt-hashed key file when API_KEYS_FILE is set, otherwise
// builds a plaintext TokenSet from API_KEYS (empty = dev mode).
func wireTokenChecker(cfg *config.Config) (auth.TokenChecker, error) {
	if cfg.Auth.APIKeysFile != "" {
		return auth.LoadHashedTokenFile(cfg.Auth.APIKeysFile)
	}
	return auth.NewTokenSet(cfg.Auth.APIKeys), nil
}

func serveMetrics(addr string, registry *prometheus.Registry, log *logrus.Entry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	log.WithField("addr", addr).Info("metrics server starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════════╗
║   RGS — experience-replay gaming core                          ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
