package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/gookit/slog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig carries the connection settings for a MongoDB-backed token index.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	AuthDB   string `mapstructure:"auth_db"`
}

func (c *MongoConfig) HasCredentials() bool {
	return strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Password) != ""
}

// DefaultMongoConfig provides connection settings for a local unauthenticated MongoDB.
var DefaultMongoConfig = MongoConfig{
	URI:      "mongodb://localhost:27017",
	Database: "token_overlay",
	Username: "",
	Password: "",
	AuthDB:   "admin",
}

// ConnectMongo establishes and pings a MongoDB connection described by cfg,
// returning the client together with the selected database handle.
func ConnectMongo(ctx context.Context, cfg *MongoConfig) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.HasCredentials() {
		opts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthDB,
		})
	}

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := cli.Database(cfg.Database)
	slog.Infof("MongoDB connected to %s, using DB: %s", cfg.URI, cfg.Database)
	return cli, db, nil
}
