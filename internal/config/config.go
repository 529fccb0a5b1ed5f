package config

import (
	"os"
	"strings"
	"time"
)

// Config carries the client's tunables. Everything comes from environment
// variables with the defaults the original flow used, so a bare run against
// a local backend needs nothing but BOOKING_ENDPOINT.
type Config struct {
	Endpoint     string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	SnapshotPath string
	RedisAddr    string
	RedisKey     string
	LogLevel     string
}

func Load() Config {
	cfg := Config{
		Endpoint:     strings.TrimSpace(os.Getenv("BOOKING_ENDPOINT")),
		PollInterval: 8 * time.Second,
		HTTPTimeout:  15 * time.Second,
		SnapshotPath: "booking-session.json",
		RedisAddr:    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisKey:     "booking:session",
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	setDuration(&cfg.PollInterval, "POLL_INTERVAL")
	setDuration(&cfg.HTTPTimeout, "HTTP_TIMEOUT")
	setString(&cfg.SnapshotPath, "SNAPSHOT_PATH")
	setString(&cfg.RedisKey, "REDIS_KEY")

	return cfg
}

func setString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*target = d
		}
	}
}
