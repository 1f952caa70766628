package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

type ServerConfig struct {
	Host            string
	Port            int           `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string `validate:"oneof=postgres sqlite"`
	URL         string `validate:"required"`
	Migrate     bool
	MaxConns    int           `validate:"gt=0"`
	LoadTimeout time.Duration `validate:"gt=0"`
}

type LoggerConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int `validate:"gt=0"`
	RateLimitBurst  int `validate:"gt=0"`
	AllowedOrigins  []string
	TrustedProxies  []string
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// TracingConfig controls the OTLP exporter. With tracing disabled spans go to
// the global no-op provider.
type TracingConfig struct {
	Enabled       bool
	ServiceName   string
	Endpoint      string
	SamplingRatio float64 `validate:"gte=0,lte=1"`
	Environment   string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getString(k, "SERVER_HOST", "localhost"),
			Port:            getInt(k, "SERVER_PORT", 8084),
			ReadTimeout:     getDuration(k, "SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration(k, "SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDuration(k, "SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration(k, "SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getString(k, "DATABASE_DRIVER", DriverPostgres)),
			URL:         getString(k, "DATABASE_URL", ""),
			Migrate:     getBool(k, "DATABASE_MIGRATE", false),
			MaxConns:    getInt(k, "DATABASE_MAX_CONNS", 5),
			LoadTimeout: getDuration(k, "DATABASE_LOAD_TIMEOUT", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getString(k, "LOG_LEVEL", "info"),
			Format: getString(k, "LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getBool(k, "SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getInt(k, "SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getInt(k, "SECURITY_RATE_LIMIT_BURST", 20),
			AllowedOrigins:  getStringSlice(k, "SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getStringSlice(k, "SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Metrics: MetricsConfig{
			Enabled:   getBool(k, "METRICS_ENABLED", true),
			Namespace: getString(k, "METRICS_NAMESPACE", "sales_dashboard"),
		},
		Tracing: TracingConfig{
			Enabled:       getBool(k, "TRACING_ENABLED", false),
			ServiceName:   getString(k, "TRACING_SERVICE_NAME", "sales-dashboard"),
			Endpoint:      getString(k, "TRACING_ENDPOINT", ""),
			SamplingRatio: getFloat(k, "TRACING_SAMPLING_RATIO", 1),
			Environment:   getString(k, "APP_ENV", "development"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		problems = append(problems, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), rule))
	}
	return errors.New(strings.Join(problems, "; "))
}

func getString(k *koanf.Koanf, key, defaultValue string) string {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

// The numeric getters fall back to the default when the variable does not parse,
// mirroring how unset variables behave.
func getInt(k *koanf.Koanf, key string, defaultValue int) int {
	if !k.Exists(key) || strings.TrimSpace(k.String(key)) == "" {
		return defaultValue
	}
	if value := k.Int(key); value != 0 || strings.TrimSpace(k.String(key)) == "0" {
		return value
	}
	return defaultValue
}

func getFloat(k *koanf.Koanf, key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(k *koanf.Koanf, key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(k.String(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getDuration(k *koanf.Koanf, key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSlice(k *koanf.Koanf, key string, defaultValue []string) []string {
	value := strings.TrimSpace(k.String(key))
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
