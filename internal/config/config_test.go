package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("API_URL", "")
	t.Setenv("USE_STATIC_DATA", "")
	t.Setenv("DATA_PRIMARY_URL", "")
	t.Setenv("GITHUB_DATA_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "tournament-data-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if !cfg.StaticMode() {
		t.Fatalf("expected static mode without API_URL")
	}
	if cfg.DataPrimaryURL != defaultPrimaryDataURL {
		t.Fatalf("unexpected primary data url: %q", cfg.DataPrimaryURL)
	}
	if cfg.GitHubDataPath != "data/data.json" {
		t.Fatalf("unexpected data path: %q", cfg.GitHubDataPath)
	}
	if cfg.WotstatConcurrency != 4 || cfg.PointsWorkers != 4 {
		t.Fatalf("unexpected worker defaults: wotstat=%d points=%d", cfg.WotstatConcurrency, cfg.PointsWorkers)
	}
	if cfg.WotstatCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected circuit open timeout: %s", cfg.WotstatCircuitOpenTimeout)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_StaticMode(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("api url selects remote mode", func(t *testing.T) {
		t.Setenv("API_URL", "https://api.example.com/v1")
		t.Setenv("USE_STATIC_DATA", "false")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StaticMode() {
			t.Fatalf("expected remote mode when API_URL is set")
		}
	})

	t.Run("flag forces static mode", func(t *testing.T) {
		t.Setenv("API_URL", "https://api.example.com/v1")
		t.Setenv("USE_STATIC_DATA", "true")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.StaticMode() {
			t.Fatalf("expected static mode when USE_STATIC_DATA=true")
		}
	})

	t.Run("invalid api url", func(t *testing.T) {
		t.Setenv("API_URL", "ftp://api.example.com")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unsupported API_URL scheme")
		}
	})
}

func TestLoad_TimeoutsRejectNegative(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	for _, key := range []string{"API_TIMEOUT", "DATA_TIMEOUT", "GITHUB_TIMEOUT", "WOTSTAT_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1s")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for negative %s", key)
			}
		})
	}

	t.Run("zero disables", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "0s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.APITimeout != 0 {
			t.Fatalf("expected zero API timeout, got %s", cfg.APITimeout)
		}
	})
}

func TestLoad_WotstatValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	tests := []struct {
		key   string
		value string
	}{
		{key: "WOTSTAT_CONCURRENCY", value: "0"},
		{key: "WOTSTAT_RATE_PER_SECOND", value: "-1"},
		{key: "WOTSTAT_CIRCUIT_ENABLED", value: "maybe"},
		{key: "WOTSTAT_CIRCUIT_FAILURE_COUNT", value: "0"},
		{key: "WOTSTAT_CIRCUIT_OPEN_TIMEOUT", value: "0s"},
		{key: "WOTSTAT_CIRCUIT_HALF_OPEN_MAX_REQ", value: "abc"},
		{key: "POINTS_WORKERS", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_GitHubSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("GITHUB_OWNER", " norris ")
	t.Setenv("GITHUB_REPO", "tournament")
	t.Setenv("GITHUB_DATA_PATH", "/public/data.json/")
	t.Setenv("APP_WRITE_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GitHubOwner != "norris" || cfg.GitHubRepo != "tournament" {
		t.Fatalf("unexpected github coordinates: %q/%q", cfg.GitHubOwner, cfg.GitHubRepo)
	}
	if cfg.GitHubDataPath != "public/data.json" {
		t.Fatalf("unexpected data path: %q", cfg.GitHubDataPath)
	}
	if cfg.WriteToken != "secret" {
		t.Fatalf("unexpected write token")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "tournament-data-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tournament-data-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"WARNING": logging.LevelWarn,
		"error":   logging.LevelError,
		"":        logging.LevelInfo,
		"bogus":   logging.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
