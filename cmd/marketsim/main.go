package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/efreitasn/marketsim/internal/config"
	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
	"github.com/efreitasn/marketsim/internal/handler"
	"github.com/efreitasn/marketsim/internal/sim"
	"github.com/efreitasn/marketsim/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulation seed", slog.Int64("seed", seed))

	// Stores and clock.
	ledger := store.NewTradeLedger()
	mids := store.NewMidPriceLog()
	clock := domain.NewClock()

	// Engine.
	registry := engine.NewRegistry()
	book := engine.NewBook(engine.BookConfig{TickSize: cfg.TickSize}, clock, registry, ledger, mids)

	// Trader population: random quoters supply liquidity, trend followers
	// consume it. Per-trader seeds derive from the run seed so one SEED
	// value reproduces the whole run.
	traders := make([]*sim.Trader, 0, cfg.RandomTraders+cfg.TrendTraders)
	for i := 0; i < cfg.RandomTraders; i++ {
		strategy := sim.NewRandomStrategy(cfg.PerceivedValue, seed+int64(i))
		traders = append(traders, sim.NewTrader(strategy, cfg.TraderFunds, cfg.TraderShares))
	}
	for i := 0; i < cfg.TrendTraders; i++ {
		strategy := sim.NewTrendStrategy(int64(cfg.TrendWindow), seed+int64(cfg.RandomTraders+i))
		traders = append(traders, sim.NewTrader(strategy, cfg.TraderFunds, cfg.TraderShares))
	}
	for _, t := range traders {
		registry.Register(t.ID, t.Participant)
	}

	// Driver.
	driver := sim.NewDriver(book, clock, traders, ledger, cfg.StepInterval, logger)

	// Seed opening quotes under a phantom participant. It has no settlement
	// handle on purpose: fills against it still record in the ledger.
	if cfg.SeedVolume > 0 {
		spread := 5 * cfg.TickSize
		if _, err := driver.Submit(domain.SideBid, cfg.PerceivedValue-spread, cfg.SeedVolume, "seed"); err != nil {
			logger.Warn("seed bid rejected", slog.String("error", err.Error()))
		}
		if _, err := driver.Submit(domain.SideAsk, cfg.PerceivedValue+spread, cfg.SeedVolume, "seed"); err != nil {
			logger.Warn("seed ask rejected", slog.String("error", err.Error()))
		}
	}

	// Router.
	router := handler.NewRouter(driver, ledger, mids, cfg.DepthBin, logger)

	// Start the simulation loop with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	driver.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the
	// simulation loop).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
