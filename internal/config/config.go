package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Ledger driver names accepted by LEDGER_DRIVER.
const (
	LedgerDriverMemory   = "memory"
	LedgerDriverGCS      = "gcs"
	LedgerDriverPostgres = "postgres"
)

// Evidence driver names accepted by EVIDENCE_DRIVER.
const (
	EvidenceDriverMemory = "memory"
	EvidenceDriverGCS    = "gcs"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Ledger       LedgerConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Evidence     EvidenceConfig
	Classifier   ClassifierConfig
	Logger       LoggerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LedgerConfig selects and parameterizes the complaint ledger store.
type LedgerConfig struct {
	Driver    string
	GCSBucket string
	GCSObject string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EvidenceConfig parameterizes the evidence object store.
type EvidenceConfig struct {
	Driver        string
	GCSBucket     string
	URLTTLMinutes int
}

// ClassifierConfig points at an optional keyword rule file.
type ClassifierConfig struct {
	RulesPath string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig holds outbound alert endpoints.
type NotificationConfig struct {
	SlackToken   string
	SlackChannel string
	WebhookURL   string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ledgerDriver := getEnv("LEDGER_DRIVER", LedgerDriverMemory)
	switch ledgerDriver {
	case LedgerDriverMemory, LedgerDriverGCS, LedgerDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid LEDGER_DRIVER %q (want memory, gcs or postgres)", ledgerDriver)
	}

	evidenceDriver := getEnv("EVIDENCE_DRIVER", EvidenceDriverMemory)
	switch evidenceDriver {
	case EvidenceDriverMemory, EvidenceDriverGCS:
	default:
		return nil, fmt.Errorf("invalid EVIDENCE_DRIVER %q (want memory or gcs)", evidenceDriver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "complaint-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Ledger: LedgerConfig{
			Driver:    ledgerDriver,
			GCSBucket: getEnv("LEDGER_GCS_BUCKET", "complaint-data"),
			GCSObject: getEnv("LEDGER_GCS_OBJECT", "complaints_master.csv"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			// Empty means no Redis; the evidence URL cache is optional.
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Evidence: EvidenceConfig{
			Driver:        evidenceDriver,
			GCSBucket:     getEnv("EVIDENCE_GCS_BUCKET", "complaint-images"),
			URLTTLMinutes: getEnvAsInt("EVIDENCE_URL_TTL_MINUTES", 60),
		},
		Classifier: ClassifierConfig{
			RulesPath: os.Getenv("CLASSIFIER_RULES_PATH"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			SlackToken:   os.Getenv("SLACK_BOT_TOKEN"),
			SlackChannel: os.Getenv("SLACK_ALERT_CHANNEL"),
			WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// URLTTL returns the evidence URL validity window.
func (e EvidenceConfig) URLTTL() time.Duration {
	if e.URLTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(e.URLTTLMinutes) * time.Minute
}

// NeedsGCS reports whether any configured store requires a GCS client.
func (c *Config) NeedsGCS() bool {
	return c.Ledger.Driver == LedgerDriverGCS || c.Evidence.Driver == EvidenceDriverGCS
}

// SlackConfigured reports whether burst alerts can be posted to Slack.
func (n NotificationConfig) SlackConfigured() bool {
	return n.SlackToken != "" && n.SlackChannel != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
