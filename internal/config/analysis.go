package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisConfig collects the environment knobs of the analysis engine.
type AnalysisConfig struct {
	Port           string
	Workers        int
	QueueSize      int
	FrameBudget    time.Duration
	ReadTimeout    time.Duration
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadAnalysisConfig(logger *logrus.Logger) AnalysisConfig {
	return AnalysisConfig{
		Port:           envString("APP_PORT", "3000"),
		Workers:        envIntMin(logger, "ANALYSIS_WORKERS", runtime.NumCPU(), 1),
		QueueSize:      envInt(logger, "ANALYSIS_QUEUE_SIZE", 64),
		FrameBudget:    time.Duration(envInt(logger, "ANALYSIS_FRAME_BUDGET_MS", 33)) * time.Millisecond,
		ReadTimeout:    time.Duration(envInt(logger, "WS_READ_TIMEOUT_SEC", 60)) * time.Second,
		RequestTimeout: time.Duration(envInt(logger, "ANALYSIS_REQUEST_TIMEOUT_MS", 1000)) * time.Millisecond,
		RateLimitRPS:   envFloat(logger, "RATE_LIMIT_RPS", 50),
		RateLimitBurst: envInt(logger, "RATE_LIMIT_BURST", 100),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(logger *logrus.Logger, key string, fallback int) int {
	return envIntMin(logger, key, fallback, 0)
}

// envIntMin reads key as an integer, falling back when it is unset, not a
// number, or below floor.
func envIntMin(logger *logrus.Logger, key string, fallback, floor int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < floor {
		logger.Warnf("Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func envFloat(logger *logrus.Logger, key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		logger.Warnf("Invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return v
}
