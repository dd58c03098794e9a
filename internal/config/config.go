package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Generator GeneratorConfig
	Store     StoreConfig
	Share     ShareConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GeneratorConfig struct {
	Delay              time.Duration
	WaitTimeout        time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	Retention          time.Duration
}

type StoreConfig struct {
	Driver string
	Path   string
}

type ShareConfig struct {
	Secret  string
	Issuer  string
	TTL     time.Duration
	BaseURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	delay, err := parseOptionalDurationEnv("GENERATOR_DELAY", 3*time.Second)
	if err != nil {
		return cfg, err
	}

	waitTimeout, err := parseDurationEnv("GENERATOR_WAIT_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	generatorRateLimitPerMinute, err := parseIntEnv("GENERATOR_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return cfg, err
	}

	generatorRateLimitBurst, err := parseIntEnv("GENERATOR_RATE_LIMIT_BURST", 5)
	if err != nil {
		return cfg, err
	}

	retention, err := parseDurationEnv("GENERATION_RETENTION", time.Hour)
	if err != nil {
		return cfg, err
	}

	cfg.Generator = GeneratorConfig{
		Delay:              delay,
		WaitTimeout:        waitTimeout,
		RateLimitPerMinute: generatorRateLimitPerMinute,
		RateLimitBurst:     generatorRateLimitBurst,
		Retention:          retention,
	}

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		Path:   getEnv("STORE_PATH", "data/itineraries.json"),
	}

	shareTTL, err := parseDurationEnv("SHARE_TTL", 30*24*time.Hour)
	if err != nil {
		return cfg, err
	}

	cfg.Share = ShareConfig{
		Secret:  getEnv("SHARE_SECRET", ""),
		Issuer:  getEnv("SHARE_ISSUER", "trip-planner"),
		TTL:     shareTTL,
		BaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS"),
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.Generator.Delay >= c.Generator.WaitTimeout {
		return fmt.Errorf("GENERATOR_WAIT_TIMEOUT must exceed GENERATOR_DELAY")
	}

	if c.Generator.RateLimitPerMinute <= 0 {
		return fmt.Errorf("GENERATOR_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.Generator.RateLimitBurst <= 0 {
		return fmt.Errorf("GENERATOR_RATE_LIMIT_BURST must be greater than 0")
	}

	switch c.Store.Driver {
	case "memory":
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the file driver")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be memory or file")
	}

	if c.Share.Secret == "" {
		return fmt.Errorf("SHARE_SECRET is required")
	}

	if c.Share.TTL <= 0 {
		return fmt.Errorf("SHARE_TTL must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

// parseOptionalDurationEnv допускает 0, чтобы отключить задержку.
func parseOptionalDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}

	return parsed, nil
}

func parseCSVEnv(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
