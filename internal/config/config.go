package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/efreitasn/marketsim/internal/domain"
)

// Config holds all runtime configuration for the market simulator.
// Monetary values are stored in cents; the corresponding environment
// variables take dollar amounts.
type Config struct {
	Port     int
	LogLevel string

	TickSize       int64 // cents, minimum price increment
	DepthBin       int64 // cents, default depth-chart bin width
	PerceivedValue int64 // cents, the instrument's notional fair value

	StepInterval  time.Duration
	RandomTraders int
	TrendTraders  int
	TrendWindow   int
	Seed          int64 // 0 derives a seed from wall time at startup
	TraderFunds   int64 // cents, opening cash per trader
	TraderShares  int64 // opening position per trader
	SeedVolume    int64 // volume of the phantom opening quotes, 0 disables

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	tickSize, err := getMoney("TICK_SIZE", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_SIZE: %w", err)
	}
	if tickSize <= 0 {
		return nil, fmt.Errorf("invalid TICK_SIZE: must be positive")
	}

	depthBin, err := getMoney("DEPTH_BIN", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid DEPTH_BIN: %w", err)
	}
	if depthBin <= 0 {
		return nil, fmt.Errorf("invalid DEPTH_BIN: must be positive")
	}

	perceivedValue, err := getMoney("PERCEIVED_VALUE", 2000)
	if err != nil {
		return nil, fmt.Errorf("invalid PERCEIVED_VALUE: %w", err)
	}
	if perceivedValue <= 0 {
		return nil, fmt.Errorf("invalid PERCEIVED_VALUE: must be positive")
	}

	stepInterval, err := getDuration("STEP_INTERVAL", 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid STEP_INTERVAL: %w", err)
	}

	randomTraders, err := getInt("RANDOM_TRADERS", 8)
	if err != nil {
		return nil, fmt.Errorf("invalid RANDOM_TRADERS: %w", err)
	}
	if randomTraders < 0 {
		return nil, fmt.Errorf("invalid RANDOM_TRADERS: must not be negative")
	}

	trendTraders, err := getInt("TREND_TRADERS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid TREND_TRADERS: %w", err)
	}
	if trendTraders < 0 {
		return nil, fmt.Errorf("invalid TREND_TRADERS: must not be negative")
	}

	trendWindow, err := getInt("TREND_WINDOW", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid TREND_WINDOW: %w", err)
	}
	if trendWindow <= 0 {
		return nil, fmt.Errorf("invalid TREND_WINDOW: must be positive")
	}

	seed, err := getInt64("SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	traderFunds, err := getMoney("TRADER_FUNDS", 100000)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADER_FUNDS: %w", err)
	}
	if traderFunds < 0 {
		return nil, fmt.Errorf("invalid TRADER_FUNDS: must not be negative")
	}

	traderShares, err := getInt64("TRADER_SHARES", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADER_SHARES: %w", err)
	}
	if traderShares < 0 {
		return nil, fmt.Errorf("invalid TRADER_SHARES: must not be negative")
	}

	seedVolume, err := getInt64("SEED_VOLUME", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_VOLUME: %w", err)
	}
	if seedVolume < 0 {
		return nil, fmt.Errorf("invalid SEED_VOLUME: must not be negative")
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		TickSize:        tickSize,
		DepthBin:        depthBin,
		PerceivedValue:  perceivedValue,
		StepInterval:    stepInterval,
		RandomTraders:   randomTraders,
		TrendTraders:    trendTraders,
		TrendWindow:     trendWindow,
		Seed:            seed,
		TraderFunds:     traderFunds,
		TraderShares:    traderShares,
		SeedVolume:      seedVolume,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// getMoney reads a dollar amount and returns cents.
func getMoney(key string, defaultCents int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultCents, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return domain.DollarsToCents(f)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
