package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	dErrors "visadesk/pkg/domain-errors"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config captures process level configuration. Every field is read from the
// environment so main stays lean.
type Config struct {
	Addr            string        `env:"VISADESK_ADDR" envDefault:":8080"`
	LogFormat       string        `env:"VISADESK_LOG_FORMAT" envDefault:"json"`
	LogLevel        string        `env:"VISADESK_LOG_LEVEL" envDefault:"info"`
	RequestTimeout  time.Duration `env:"VISADESK_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"VISADESK_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Store selects the application persistence backend.
	Store       string `env:"VISADESK_STORE" envDefault:"memory"`
	DatabaseURL string `env:"VISADESK_DATABASE_URL"`
	// SimulateLatency keeps the fixed per-operation delays of the in-memory
	// collections; tests and benchmarks turn it off.
	SimulateLatency bool `env:"VISADESK_SIMULATE_LATENCY" envDefault:"true"`
	Seed            bool `env:"VISADESK_SEED" envDefault:"true"`

	Redis    RedisConfig   `envPrefix:"VISADESK_REDIS_"`
	DraftTTL time.Duration `env:"VISADESK_DRAFT_TTL" envDefault:"72h"`

	CatalogPath string `env:"VISADESK_CATALOG_PATH"`

	JWTSigningKey string `env:"VISADESK_JWT_SIGNING_KEY"`
	JWTIssuer     string `env:"VISADESK_JWT_ISSUER" envDefault:"visadesk"`
	DefaultAgent  string `env:"VISADESK_DEFAULT_AGENT" envDefault:"Unassigned"`

	Kafka        KafkaConfig `envPrefix:"VISADESK_KAFKA_"`
	NotifyBuffer int         `env:"VISADESK_NOTIFY_BUFFER" envDefault:"256"`
	NotifyKeep   int         `env:"VISADESK_NOTIFY_KEEP" envDefault:"100"`

	// OTelEndpoint enables OTLP/HTTP trace export, e.g. http://localhost:4318.
	OTelEndpoint string `env:"VISADESK_OTEL_ENDPOINT"`
}

// RedisConfig configures the draft store connection. An empty URL keeps
// drafts in memory.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables the Kafka notification sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"visadesk.notifications"`
}

// AuthEnabled reports whether bearer tokens are required on API routes.
func (c Config) AuthEnabled() bool {
	return c.JWTSigningKey != ""
}

// FromEnv parses and validates configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "VISADESK_DATABASE_URL is required when VISADESK_STORE=postgres")
		}
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown store %q", c.Store))
	}
	if c.DraftTTL <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "VISADESK_DRAFT_TTL must be positive")
	}
	if c.NotifyBuffer <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "VISADESK_NOTIFY_BUFFER must be positive")
	}
	return nil
}
