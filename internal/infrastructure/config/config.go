package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DotenvFile is read from the working directory, when present, before the
// environment. Variables already set win.
const DotenvFile = ".env"

// Session storage backends.
const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig

	// DownloadDir is where the CLI saves documents.
	DownloadDir string `env:"DOWNLOAD_DIR, default=."`
}

type APIConfig struct {
	BaseURL string `env:"API_BASE_URL, default=http://localhost:5000/api"`
	// Timeout bounds every backend request; zero means no limit.
	Timeout time.Duration `env:"API_TIMEOUT, default=0s"`
}

type SessionConfig struct {
	Store   string        `env:"SESSION_STORE,    default=redis"`
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL, default=24h"`
	File    string        `env:"SESSION_FILE"`
	Secret  string        `env:"SESSION_SECRET"`
	Cookie  string        `env:"SESSION_COOKIE,   default=portal_sid"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=caportal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=portal.db"`
}

// IsDevelopment switches on human-friendly logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig,
// after merging DotenvFile into the environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(DotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: %s: %w", DotenvFile, err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreRedis, StoreMongo, StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative")
	}
	return nil
}
