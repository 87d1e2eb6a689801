package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     zapcore.Level
	}

	OpenMeteo struct {
		GeocodingURL  string
		AirQualityURL string
		ForecastURL   string
		Timeout       time.Duration
	}

	Lookup struct {
		Timeout time.Duration
	}

	Watch struct {
		Cities   []string
		Schedule string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.Server.LogLevel = level

	// Open-Meteo endpoints
	cfg.OpenMeteo.GeocodingURL = strings.TrimRight(getEnv("OPENMETEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1"), "/")
	cfg.OpenMeteo.AirQualityURL = strings.TrimRight(getEnv("OPENMETEO_AIR_QUALITY_URL", "https://air-quality-api.open-meteo.com/v1"), "/")
	cfg.OpenMeteo.ForecastURL = strings.TrimRight(getEnv("OPENMETEO_URL", "https://api.open-meteo.com/v1"), "/")
	cfg.OpenMeteo.Timeout = parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "10s"))

	cfg.Lookup.Timeout = parseDuration(getEnv("LOOKUP_TIMEOUT", "15s"))

	// Watch list
	cfg.Watch.Cities = splitCities(getEnv("WATCH_CITIES", ""))
	cfg.Watch.Schedule = getEnv("WATCH_SCHEDULE", "@every 30m")

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(value string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", value)
	}
}

// splitCities drops blanks so "Prague, ,London," yields two entries.
func splitCities(value string) []string {
	var cities []string
	for _, city := range strings.Split(value, ",") {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
