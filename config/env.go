package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type NotifySource string

const (
	NotifyLocal    NotifySource = "local"
	NotifyPostgres NotifySource = "postgres"
	NotifyKafka    NotifySource = "kafka"
)

// Config holds all environment configuration
type Config struct {
	// Database
	DatabaseHost     string `env:"DATABASE_HOST" envDefault:"localhost"`
	DatabasePort     string `env:"DATABASE_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	DatabaseName     string `env:"DATABASE_NAME" envDefault:"postgres"`

	// Authentication
	JWTSecret string `env:"JWT_SECRET" envDefault:"dummyjwt"`

	// Change notification
	KafkaBroker       string        `env:"KAFKA_BROKER"`
	KafkaTopic        string        `env:"KAFKA_TOPIC" envDefault:"housecup-changes"`
	NotifySource      NotifySource  `env:"NOTIFY_SOURCE" envDefault:"postgres"`
	NotifyChannel     string        `env:"NOTIFY_CHANNEL" envDefault:"housecup_changes"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"10s"`
	RefreshRate       float64       `env:"REFRESH_RATE" envDefault:"4"`

	// Officiating
	OfflineBufferPath string `env:"OFFLINE_BUFFER_PATH"`
	AllowForceSeal    bool   `env:"ALLOW_FORCE_SEAL" envDefault:"true"`

	// Discord - optional
	DiscordBotToken  string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`

	// Other
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://localhost:3000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	appConfig *Config
	onceEnv   sync.Once
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.NotifySource {
	case NotifyLocal, NotifyPostgres:
	case NotifyKafka:
		if c.KafkaBroker == "" {
			return fmt.Errorf("NOTIFY_SOURCE=kafka requires KAFKA_BROKER")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_SOURCE %q", c.NotifySource)
	}
	if c.RefreshRate <= 0 {
		return fmt.Errorf("REFRESH_RATE must be positive, got %v", c.RefreshRate)
	}
	if c.ReconcileInterval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be positive, got %v", c.ReconcileInterval)
	}
	if c.IsProduction() && (os.Getenv("JWT_SECRET") == "" || c.JWTSecret == "dummyjwt") {
		return fmt.Errorf("required environment variable JWT_SECRET is not set")
	}
	return nil
}

// Env loads the configuration once and panics if it is invalid.
func Env() *Config {
	onceEnv.Do(func() {
		config, err := Load()
		if err != nil {
			panic(err)
		}
		appConfig = config
	})
	return appConfig
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DatabaseHost, c.DatabasePort, c.PostgresUser, c.PostgresPassword, c.DatabaseName)
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordChannelID != ""
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
