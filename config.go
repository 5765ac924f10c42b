package server

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the externally tunable knobs of the relay.
type Config struct {
	Addr              string
	HeartbeatInterval time.Duration
	IdleSweepInterval time.Duration
	IdleTimeout       time.Duration
	ClientDir         string
	SendBuffer        int
	MaxFrameBytes     int64
	WriteWait         time.Duration
}

// DefaultConfig returns the reference behavior: 30s heartbeat sweep, 60s idle
// sweep, 5m idle threshold.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		HeartbeatInterval: 30 * time.Second,
		IdleSweepInterval: 60 * time.Second,
		IdleTimeout:       5 * time.Minute,
		ClientDir:         "client",
		SendBuffer:        256,
		MaxFrameBytes:     4096,
		WriteWait:         10 * time.Second,
	}
}

// LoadConfig reads an optional .env file and then the RELAY_* environment
// variables on top of the defaults. Invalid values are logged and skipped
// rather than fatal.
func LoadConfig(log *zap.SugaredLogger) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnw("failed to load .env", "error", err)
	}

	cfg := DefaultConfig()
	if raw := os.Getenv("RELAY_ADDR"); raw != "" {
		cfg.Addr = raw
	}
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Addr = ":" + raw
	}
	if raw := os.Getenv("RELAY_CLIENT_DIR"); raw != "" {
		cfg.ClientDir = raw
	}
	cfg.HeartbeatInterval = envDuration(log, "RELAY_HEARTBEAT_INTERVAL", cfg.HeartbeatInterval)
	cfg.IdleSweepInterval = envDuration(log, "RELAY_IDLE_SWEEP_INTERVAL", cfg.IdleSweepInterval)
	cfg.IdleTimeout = envDuration(log, "RELAY_IDLE_TIMEOUT", cfg.IdleTimeout)
	if raw := os.Getenv("RELAY_SEND_BUFFER"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SendBuffer = value
		} else {
			log.Warnw("invalid RELAY_SEND_BUFFER", "value", raw)
		}
	}
	return cfg
}

func envDuration(log *zap.SugaredLogger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Warnw("invalid duration", "key", key, "value", raw)
		return fallback
	}
	return value
}
