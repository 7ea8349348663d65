package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

const (
	defaultPrimaryDataURL = "https://raw.githubusercontent.com/chuck-norris-tournament/data/main/data/data.json"
	defaultGitHubAPIURL   = "https://api.github.com"
	defaultGitHubDataPath = "data/data.json"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	WriteToken         string

	UseStaticData bool
	APIURL        string
	APITimeout    time.Duration

	DataPrimaryURL  string
	DataFallbackURL string
	DataTimeout     time.Duration

	GitHubAPIBaseURL string
	GitHubOwner      string
	GitHubRepo       string
	GitHubBranch     string
	GitHubToken      string
	GitHubDataPath   string
	GitHubTimeout    time.Duration
	CredentialsFile  string

	WotstatTimeout               time.Duration
	WotstatConcurrency           int
	WotstatRatePerSecond         float64
	WotstatCircuitEnabled        bool
	WotstatCircuitFailureCount   int
	WotstatCircuitOpenTimeout    time.Duration
	WotstatCircuitHalfOpenMaxReq int
	PointsWorkers                int

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// StaticMode reports whether the data API is served from the stored document.
// It is on when USE_STATIC_DATA=true or when no API_URL is configured.
func (c Config) StaticMode() bool {
	return c.UseStaticData || strings.TrimSpace(c.APIURL) == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	useStaticData, err := strconv.ParseBool(getEnv("USE_STATIC_DATA", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse USE_STATIC_DATA: %w", err)
	}
	apiURL := strings.TrimSpace(getEnv("API_URL", ""))
	if apiURL != "" {
		if err := validateURL(apiURL); err != nil {
			return Config{}, fmt.Errorf("parse API_URL: %w", err)
		}
	}
	apiTimeout, err := parseTimeout("API_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	dataPrimaryURL := strings.TrimSpace(getEnv("DATA_PRIMARY_URL", defaultPrimaryDataURL))
	dataFallbackURL := strings.TrimSpace(getEnv("DATA_FALLBACK_URL", ""))
	if dataPrimaryURL == "" && dataFallbackURL == "" {
		return Config{}, fmt.Errorf("DATA_PRIMARY_URL or DATA_FALLBACK_URL is required")
	}
	dataTimeout, err := parseTimeout("DATA_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	gitHubAPIBaseURL := strings.TrimSpace(getEnv("GITHUB_API_BASE_URL", defaultGitHubAPIURL))
	if err := validateURL(gitHubAPIBaseURL); err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_API_BASE_URL: %w", err)
	}
	gitHubTimeout, err := parseTimeout("GITHUB_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	wotstatTimeout, err := parseTimeout("WOTSTAT_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	wotstatConcurrency, err := getEnvAsInt("WOTSTAT_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_CONCURRENCY: %w", err)
	}
	if wotstatConcurrency < 1 {
		return Config{}, fmt.Errorf("WOTSTAT_CONCURRENCY must be >= 1")
	}
	wotstatRate, err := strconv.ParseFloat(getEnv("WOTSTAT_RATE_PER_SECOND", "2"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_RATE_PER_SECOND: %w", err)
	}
	if wotstatRate < 0 {
		return Config{}, fmt.Errorf("WOTSTAT_RATE_PER_SECOND must be >= 0")
	}
	wotstatCircuitEnabled, err := strconv.ParseBool(getEnv("WOTSTAT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_CIRCUIT_ENABLED: %w", err)
	}
	wotstatCircuitFailureCount, err := getEnvAsInt("WOTSTAT_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if wotstatCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WOTSTAT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	wotstatCircuitOpenTimeout, err := time.ParseDuration(getEnv("WOTSTAT_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if wotstatCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WOTSTAT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	wotstatCircuitHalfOpenMaxReq, err := getEnvAsInt("WOTSTAT_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse WOTSTAT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if wotstatCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("WOTSTAT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	pointsWorkers, err := getEnvAsInt("POINTS_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse POINTS_WORKERS: %w", err)
	}
	if pointsWorkers < 1 {
		return Config{}, fmt.Errorf("POINTS_WORKERS must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	credentialsFile := strings.TrimSpace(getEnv("CREDENTIALS_FILE", ""))

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "tournament-data-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		WriteToken:         strings.TrimSpace(getEnv("APP_WRITE_TOKEN", "")),

		UseStaticData: useStaticData,
		APIURL:        apiURL,
		APITimeout:    apiTimeout,

		DataPrimaryURL:  dataPrimaryURL,
		DataFallbackURL: dataFallbackURL,
		DataTimeout:     dataTimeout,

		GitHubAPIBaseURL: gitHubAPIBaseURL,
		GitHubOwner:      strings.TrimSpace(getEnv("GITHUB_OWNER", "")),
		GitHubRepo:       strings.TrimSpace(getEnv("GITHUB_REPO", "")),
		GitHubBranch:     strings.TrimSpace(getEnv("GITHUB_BRANCH", "")),
		GitHubToken:      strings.TrimSpace(getEnv("GITHUB_TOKEN", "")),
		GitHubDataPath:   strings.Trim(strings.TrimSpace(getEnv("GITHUB_DATA_PATH", defaultGitHubDataPath)), "/"),
		GitHubTimeout:    gitHubTimeout,
		CredentialsFile:  credentialsFile,

		WotstatTimeout:               wotstatTimeout,
		WotstatConcurrency:           wotstatConcurrency,
		WotstatRatePerSecond:         wotstatRate,
		WotstatCircuitEnabled:        wotstatCircuitEnabled,
		WotstatCircuitFailureCount:   wotstatCircuitFailureCount,
		WotstatCircuitOpenTimeout:    wotstatCircuitOpenTimeout,
		WotstatCircuitHalfOpenMaxReq: wotstatCircuitHalfOpenMaxReq,
		PointsWorkers:                pointsWorkers,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.GitHubDataPath == "" {
		return Config{}, fmt.Errorf("GITHUB_DATA_PATH cannot be empty")
	}

	return cfg, nil
}

// parseTimeout reads a client timeout. Zero disables it; negative values are
// rejected.
func parseTimeout(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return d, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
