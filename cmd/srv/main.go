package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/4chain-ag/go-token-overlay/pkg/appconfig"
	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	enginestorage "github.com/4chain-ag/go-token-overlay/pkg/core/engine/storage"
	"github.com/4chain-ag/go-token-overlay/pkg/server"
	"github.com/4chain-ag/go-token-overlay/pkg/token"
	tokenstorage "github.com/4chain-ag/go-token-overlay/pkg/token/storage"
	"github.com/bsv-blockchain/go-sdk/transaction/chaintracker"
	"github.com/gookit/slog"
)

func main() {
	if err := execute(); err != nil {
		slog.Fatal(err)
	}
}

func execute() error {
	configPath := flag.String("config", appconfig.DefaultConfigFilePath, "Path to the configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config op failed: %w", err)
	}

	appconfig.SetupLogger(cfg.Logger)

	ctx := context.Background()

	index, cleanup, err := newTokenIndex(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("token index storage setup failed: %w", err)
	}
	defer cleanup()

	outputs, err := enginestorage.NewSQLiteStorage(cfg.Engine.ConnectionString)
	if err != nil {
		return fmt.Errorf("engine storage setup failed: %w", err)
	}
	defer outputs.Close() //nolint:errcheck

	e := engine.NewEngine(engine.Engine{
		Managers: map[string]engine.TopicManager{
			token.TopicName: token.NewTopicManager(),
		},
		LookupServices: map[string]engine.LookupService{
			token.LookupServiceName: token.NewLookupService(index),
		},
		Storage:      outputs,
		ChainTracker: newChainTracker(cfg.Engine),
	})

	srv := server.New(server.WithConfig(cfg.Server), server.WithEngine(e))
	done := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// We received an interrupt signal, shut down.
		if err := srv.Shutdown(ctx); err != nil {
			slog.Errorf("http server shutdown err: %v", err)
		}
		close(done)
	}()

	slog.Infof("Token overlay API listening on %s", srv.SocketAddr())
	err = srv.ListenAndServe(ctx)
	<-done
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server listen and serve op failure: %w", err)
	}

	return nil
}

func loadConfig(path string) (appconfig.Config, error) {
	loader := appconfig.NewLoader("TOKEN_OVERLAY")
	if path != appconfig.DefaultConfigFilePath {
		if err := loader.SetConfigFilePath(path); err != nil {
			return appconfig.Config{}, err
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return appconfig.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return appconfig.Config{}, err
	}
	return cfg, nil
}

// newTokenIndex builds the configured token index storage backend and returns
// it together with a cleanup function releasing the backing connection.
func newTokenIndex(ctx context.Context, cfg appconfig.StorageConfig) (token.Storage, func(), error) {
	switch cfg.Backend {
	case appconfig.StorageBackendMongo:
		cli, db, err := tokenstorage.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		index, err := tokenstorage.NewMongoStorage(ctx, db)
		if err != nil {
			cli.Disconnect(ctx) //nolint:errcheck
			return nil, nil, err
		}
		return index, func() { cli.Disconnect(ctx) }, nil //nolint:errcheck
	default:
		index, err := tokenstorage.NewSQLiteStorage(cfg.SQLite.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return index, func() { index.Close() }, nil //nolint:errcheck
	}
}

func newChainTracker(cfg appconfig.EngineConfig) chaintracker.ChainTracker {
	network := chaintracker.MainNet
	if cfg.Network == "test" {
		network = chaintracker.TestNet
	}
	return chaintracker.NewWhatsOnChain(network, cfg.WhatsOnChainAPIKey)
}
