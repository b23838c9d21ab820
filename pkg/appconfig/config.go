package appconfig

import (
	"fmt"

	"github.com/4chain-ag/go-token-overlay/pkg/server"
	"github.com/4chain-ag/go-token-overlay/pkg/token/storage"
	"github.com/google/uuid"
)

// Supported token index storage backends.
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendMongo  = "mongo"
)

// Config represents the application configuration: the HTTP API settings,
// the overlay engine settings and the token index storage selection.
type Config struct {
	Server  server.Config `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Storage StorageConfig `mapstructure:"storage"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// EngineConfig configures the overlay engine: the BSV network used for
// Merkle root verification and the SQLite database tracking admitted outputs.
type EngineConfig struct {
	Network            string `mapstructure:"network"`
	WhatsOnChainAPIKey string `mapstructure:"whatsonchain_api_key"`
	ConnectionString   string `mapstructure:"connection_string"`
}

// StorageConfig selects and configures the token index storage backend.
type StorageConfig struct {
	Backend string              `mapstructure:"backend"`
	SQLite  SQLiteConfig        `mapstructure:"sqlite"`
	Mongo   storage.MongoConfig `mapstructure:"mongo"`
}

// SQLiteConfig carries the connection string for a SQLite-backed token index.
type SQLiteConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
}

// LoggerConfig configures the application-wide structured logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	PrettyPrint bool   `mapstructure:"pretty_print"`
}

// Defaults returns the default configuration values.
func Defaults() Config {
	cfg := server.DefaultConfig
	cfg.AdminBearerToken = uuid.NewString()

	return Config{
		Server: cfg,
		Engine: EngineConfig{
			Network:          "main",
			ConnectionString: "file:overlay.db",
		},
		Storage: StorageConfig{
			Backend: StorageBackendSQLite,
			SQLite:  SQLiteConfig{ConnectionString: "file:tokens.db"},
			Mongo:   storage.DefaultMongoConfig,
		},
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "json",
			PrettyPrint: false,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.validateEngine(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.validateStorage(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.AdminBearerToken == "" {
		return fmt.Errorf("admin bearer token is required")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Network != "main" && c.Engine.Network != "test" {
		return fmt.Errorf("unsupported network: %s", c.Engine.Network)
	}
	if c.Engine.ConnectionString == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendSQLite:
		if c.Storage.SQLite.ConnectionString == "" {
			return fmt.Errorf("sqlite connection string is required")
		}
	case StorageBackendMongo:
		if c.Storage.Mongo.URI == "" {
			return fmt.Errorf("mongodb URI is required")
		}
		if c.Storage.Mongo.Database == "" {
			return fmt.Errorf("mongodb database is required")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}
	return nil
}
