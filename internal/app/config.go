package app

import (
	"math"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	StateDir string

	CycleIntervalMS    int64
	DebounceCycles     int
	SegmentDurationSec float64
	ForecastModel      string

	MongoURI            string // empty disables the archive
	MongoDatabase       string
	ArchiveIntervalSec  int64
	AutosaveIntervalSec int64

	CORSAllowedOrigins []string
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8085"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		StateDir: getEnv("STATE_DIR", "data"),

		CycleIntervalMS:    getEnvInt64("CYCLE_INTERVAL_MS", 1000),
		DebounceCycles:     int(getEnvInt64("DEBOUNCE_CYCLES", 10)),
		SegmentDurationSec: getEnvFloat64("SEGMENT_DURATION_SEC", 10),
		ForecastModel:      strings.ToLower(getEnv("FORECAST_MODEL", "trend")),

		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDatabase:       getEnv("MONGO_DB", "abrengine"),
		ArchiveIntervalSec:  getEnvInt64("ARCHIVE_INTERVAL_SEC", 15),
		AutosaveIntervalSec: getEnvInt64("AUTOSAVE_INTERVAL_SEC", 60),

		CORSAllowedOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat64(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	if parsed <= 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
