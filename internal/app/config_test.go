package app

import (
	"os"
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Clear all env vars that LoadConfig reads so we get pure defaults.
	envVars := []string{
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "STATE_DIR",
		"CYCLE_INTERVAL_MS", "DEBOUNCE_CYCLES", "SEGMENT_DURATION_SEC",
		"FORECAST_MODEL", "MONGO_URI", "MONGO_DB",
		"ARCHIVE_INTERVAL_SEC", "AUTOSAVE_INTERVAL_SEC",
		"CORS_ALLOWED_ORIGINS",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":8085"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"StateDir", cfg.StateDir, "data"},
		{"CycleIntervalMS", cfg.CycleIntervalMS, int64(1000)},
		{"DebounceCycles", cfg.DebounceCycles, 10},
		{"SegmentDurationSec", cfg.SegmentDurationSec, 10.0},
		{"ForecastModel", cfg.ForecastModel, "trend"},
		{"MongoURI", cfg.MongoURI, ""},
		{"MongoDatabase", cfg.MongoDatabase, "abrengine"},
		{"ArchiveIntervalSec", cfg.ArchiveIntervalSec, int64(15)},
		{"AutosaveIntervalSec", cfg.AutosaveIntervalSec, int64(60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins: got %v, want nil/empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("STATE_DIR", "/var/lib/abr")
	t.Setenv("CYCLE_INTERVAL_MS", "250")
	t.Setenv("DEBOUNCE_CYCLES", "5")
	t.Setenv("SEGMENT_DURATION_SEC", "4")
	t.Setenv("FORECAST_MODEL", "Constant")
	t.Setenv("MONGO_URI", "mongodb://remote:27017")
	t.Setenv("MONGO_DB", "mydb")
	t.Setenv("ARCHIVE_INTERVAL_SEC", "5")
	t.Setenv("AUTOSAVE_INTERVAL_SEC", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:3000 , https://example.com ,")

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":9090"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"StateDir", cfg.StateDir, "/var/lib/abr"},
		{"CycleIntervalMS", cfg.CycleIntervalMS, int64(250)},
		{"DebounceCycles", cfg.DebounceCycles, 5},
		{"SegmentDurationSec", cfg.SegmentDurationSec, 4.0},
		{"ForecastModel", cfg.ForecastModel, "constant"},
		{"MongoURI", cfg.MongoURI, "mongodb://remote:27017"},
		{"MongoDatabase", cfg.MongoDatabase, "mydb"},
		{"ArchiveIntervalSec", cfg.ArchiveIntervalSec, int64(5)},
		{"AutosaveIntervalSec", cfg.AutosaveIntervalSec, int64(120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	wantOrigins := []string{"http://localhost:3000", "https://example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, wantOrigins) {
		t.Errorf("CORSAllowedOrigins: got %v, want %v", cfg.CORSAllowedOrigins, wantOrigins)
	}
}

func TestGetEnvInt64InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int64
		want     int64
	}{
		{"empty string", "", 42, 42},
		{"not a number", "abc", 42, 42},
		{"negative number", "-5", 42, 42},
		{"zero", "0", 42, 0},
		{"valid positive", "100", 42, 100},
		{"whitespace around number", "  50  ", 42, 50},
		{"float", "3.14", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.envVal)
			got := getEnvInt64("TEST_INT_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat64InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback float64
		want     float64
	}{
		{"empty string", "", 10, 10},
		{"not a number", "ten", 10, 10},
		{"negative", "-2", 10, 10},
		{"zero", "0", 10, 10},
		{"valid", "2.5", 10, 2.5},
		{"whitespace", " 6 ", 10, 6},
		{"inf", "Inf", 10, 10},
		{"nan", "NaN", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT_VAR", tt.envVal)
			got := getEnvFloat64("TEST_FLOAT_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{",,", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitCSV(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCSV(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
