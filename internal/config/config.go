package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	Processing ProcessingConfig
	Tolerance  ToleranceConfig
	Extractor  ExtractorConfig
	NATS       NATSConfig
	Metrics    MetricsConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds the raw step archive settings.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProcessingConfig holds file gate and pipeline settings.
type ProcessingConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PromptCatalog string `mapstructure:"prompt_catalog"`
	ValidateData  bool   `mapstructure:"validate_data"`
}

// MaxFileSizeBytes converts the configured limit to bytes.
func (p *ProcessingConfig) MaxFileSizeBytes() int64 {
	return p.MaxFileSizeMB << 20
}

// ToleranceConfig holds the numeric tolerances used by cross-section checks.
type ToleranceConfig struct {
	Amount        float64 `mapstructure:"amount"`
	TaxAllocation float64 `mapstructure:"tax_allocation"`
	Weight        float64 `mapstructure:"weight"`
}

// ExtractorConfig holds the extraction service client settings.
type ExtractorConfig struct {
	Endpoint           string        `mapstructure:"endpoint"`
	FallbackEndpoint   string        `mapstructure:"fallback_endpoint"`
	APIKey             string        `mapstructure:"api_key"`
	TimeoutSecs        int           `mapstructure:"timeout_secs"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

// NATSConfig holds event publishing settings.
type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// MetricsConfig holds the Prometheus listener settings.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from environment variables with the COMEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COMEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "comex")
	v.SetDefault("db.password", "comex_secret")
	v.SetDefault("db.name", "comex_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "comex-raw-steps")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Processing defaults
	v.SetDefault("processing.max_file_size_mb", 50)
	v.SetDefault("processing.prompt_catalog", "")
	v.SetDefault("processing.validate_data", true)

	// Tolerance defaults
	v.SetDefault("tolerance.amount", 0.01)
	v.SetDefault("tolerance.tax_allocation", 1.0)
	v.SetDefault("tolerance.weight", 0.1)

	// Extractor defaults
	v.SetDefault("extractor.endpoint", "")
	v.SetDefault("extractor.fallback_endpoint", "")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.timeout_secs", 120)
	v.SetDefault("extractor.breaker_max_failures", 5)
	v.SetDefault("extractor.breaker_timeout", "30s")

	// NATS defaults
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "comex.documents.validated")

	// Metrics defaults
	v.SetDefault("metrics.addr", ":9090")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"db.host":                        "COMEX_DB_HOST",
		"db.port":                        "COMEX_DB_PORT",
		"db.user":                        "COMEX_DB_USER",
		"db.password":                    "COMEX_DB_PASSWORD",
		"db.name":                        "COMEX_DB_NAME",
		"db.sslmode":                     "COMEX_DB_SSLMODE",
		"db.max_open":                    "COMEX_DB_MAX_OPEN",
		"db.max_idle":                    "COMEX_DB_MAX_IDLE",
		"s3.enabled":                     "COMEX_S3_ENABLED",
		"s3.region":                      "COMEX_S3_REGION",
		"s3.bucket":                      "COMEX_S3_BUCKET",
		"s3.endpoint":                    "COMEX_S3_ENDPOINT",
		"s3.access_key":                  "COMEX_S3_ACCESS_KEY",
		"s3.secret_key":                  "COMEX_S3_SECRET_KEY",
		"log.level":                      "COMEX_LOG_LEVEL",
		"log.format":                     "COMEX_LOG_FORMAT",
		"processing.max_file_size_mb":    "COMEX_PROCESSING_MAX_FILE_SIZE_MB",
		"processing.prompt_catalog":      "COMEX_PROCESSING_PROMPT_CATALOG",
		"processing.validate_data":       "COMEX_PROCESSING_VALIDATE_DATA",
		"tolerance.amount":               "COMEX_TOLERANCE_AMOUNT",
		"tolerance.tax_allocation":       "COMEX_TOLERANCE_TAX_ALLOCATION",
		"tolerance.weight":               "COMEX_TOLERANCE_WEIGHT",
		"extractor.endpoint":             "COMEX_EXTRACTOR_ENDPOINT",
		"extractor.fallback_endpoint":    "COMEX_EXTRACTOR_FALLBACK_ENDPOINT",
		"extractor.api_key":              "COMEX_EXTRACTOR_API_KEY",
		"extractor.timeout_secs":         "COMEX_EXTRACTOR_TIMEOUT_SECS",
		"extractor.breaker_max_failures": "COMEX_EXTRACTOR_BREAKER_MAX_FAILURES",
		"extractor.breaker_timeout":      "COMEX_EXTRACTOR_BREAKER_TIMEOUT",
		"nats.enabled":                   "COMEX_NATS_ENABLED",
		"nats.url":                       "COMEX_NATS_URL",
		"nats.subject":                   "COMEX_NATS_SUBJECT",
		"metrics.addr":                   "COMEX_METRICS_ADDR",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Processing = ProcessingConfig{
		MaxFileSizeMB: v.GetInt64("processing.max_file_size_mb"),
		PromptCatalog: v.GetString("processing.prompt_catalog"),
		ValidateData:  v.GetBool("processing.validate_data"),
	}
	cfg.Tolerance = ToleranceConfig{
		Amount:        v.GetFloat64("tolerance.amount"),
		TaxAllocation: v.GetFloat64("tolerance.tax_allocation"),
		Weight:        v.GetFloat64("tolerance.weight"),
	}
	cfg.Extractor = ExtractorConfig{
		Endpoint:           v.GetString("extractor.endpoint"),
		FallbackEndpoint:   v.GetString("extractor.fallback_endpoint"),
		APIKey:             v.GetString("extractor.api_key"),
		TimeoutSecs:        v.GetInt("extractor.timeout_secs"),
		BreakerMaxFailures: v.GetUint32("extractor.breaker_max_failures"),
		BreakerTimeout:     v.GetDuration("extractor.breaker_timeout"),
	}
	cfg.NATS = NATSConfig{
		Enabled: v.GetBool("nats.enabled"),
		URL:     v.GetString("nats.url"),
		Subject: v.GetString("nats.subject"),
	}
	cfg.Metrics = MetricsConfig{
		Addr: v.GetString("metrics.addr"),
	}

	if cfg.Processing.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("config: processing.max_file_size_mb must be positive, got %d", cfg.Processing.MaxFileSizeMB)
	}
	if cfg.Tolerance.Amount < 0 || cfg.Tolerance.TaxAllocation < 0 || cfg.Tolerance.Weight < 0 {
		return nil, fmt.Errorf("config: tolerances must not be negative")
	}
	return cfg, nil
}
