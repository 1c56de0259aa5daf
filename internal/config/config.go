package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	SwaggerEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	SessionTTL                 time.Duration
	SessionSweepInterval       time.Duration
	TeamCountMin               int
	TeamCountMax               int
	RosterMaxPlayers           int
	RandomSeed                 uint64
	ImportMaxBytes             int64
	ExportCacheTTL             time.Duration
	ExportWorkers              int
	ExportTitle                string
	ExportFilePrefix           string
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
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

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	sessionTTL, err := getEnvAsPositiveDuration("SESSION_TTL", "12h")
	if err != nil {
		return Config{}, err
	}
	sessionSweepInterval, err := getEnvAsPositiveDuration("SESSION_SWEEP_INTERVAL", "5m")
	if err != nil {
		return Config{}, err
	}

	teamCountMin, err := getEnvAsInt("TEAM_COUNT_MIN", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_COUNT_MIN: %w", err)
	}
	if teamCountMin < 1 {
		return Config{}, fmt.Errorf("TEAM_COUNT_MIN must be >= 1")
	}
	teamCountMax, err := getEnvAsInt("TEAM_COUNT_MAX", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_COUNT_MAX: %w", err)
	}
	if teamCountMax < teamCountMin {
		return Config{}, fmt.Errorf("TEAM_COUNT_MAX must be >= TEAM_COUNT_MIN")
	}

	rosterMaxPlayers, err := getEnvAsInt("ROSTER_MAX_PLAYERS", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_MAX_PLAYERS: %w", err)
	}
	if rosterMaxPlayers < 1 {
		return Config{}, fmt.Errorf("ROSTER_MAX_PLAYERS must be >= 1")
	}

	randomSeed, err := strconv.ParseUint(getEnv("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANDOM_SEED: %w", err)
	}

	importMaxBytes, err := strconv.ParseInt(getEnv("IMPORT_MAX_BYTES", "5242880"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_MAX_BYTES: %w", err)
	}
	if importMaxBytes <= 0 {
		return Config{}, fmt.Errorf("IMPORT_MAX_BYTES must be > 0")
	}

	exportCacheTTL, err := getEnvAsPositiveDuration("EXPORT_CACHE_TTL", "10m")
	if err != nil {
		return Config{}, err
	}
	exportWorkers, err := getEnvAsInt("EXPORT_WORKERS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_WORKERS: %w", err)
	}
	if exportWorkers < 1 {
		return Config{}, fmt.Errorf("EXPORT_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "team-randomiser-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		SwaggerEnabled:             swaggerEnabled,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		SessionTTL:                 sessionTTL,
		SessionSweepInterval:       sessionSweepInterval,
		TeamCountMin:               teamCountMin,
		TeamCountMax:               teamCountMax,
		RosterMaxPlayers:           rosterMaxPlayers,
		RandomSeed:                 randomSeed,
		ImportMaxBytes:             importMaxBytes,
		ExportCacheTTL:             exportCacheTTL,
		ExportWorkers:              exportWorkers,
		ExportTitle:                strings.TrimSpace(getEnv("EXPORT_TITLE", "EdibleFC Randomiser - Teams")),
		ExportFilePrefix:           strings.TrimSpace(getEnv("EXPORT_FILE_PREFIX", "EdibleFC")),
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
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

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return d, nil
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
