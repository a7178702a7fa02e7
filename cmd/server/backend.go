package main

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/contract"
	"market-lab/infrastructure/mongostore"
	"market-lab/infrastructure/pgstore"
	"market-lab/infrastructure/storage"
	"market-lab/internal"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
)

const (
	debugPort     = 8081
	debugEndpoint = "/inspect"
)

// backend is the set of repositories behind the services, whichever driver provides them.
type backend struct {
	conversations contract.IConversationRepository
	messages      contract.IMessageRepository
	hires         contract.IHireRequestRepository
	profiles      contract.IProfileRepository
	roster        contract.IProviderRoster
	close         func()
}

func openBackend(ctx context.Context, config internal.Config, logger *slog.Logger) (*backend, error) {
	switch config.StoreDriver {
	case internal.DriverMongo:
		client, err := mongostore.Connect(ctx, config.MongoURI)
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(client.Database(config.MongoDatabase), logger)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		logger.Info("Using MongoDB store", "database", config.MongoDatabase)
		return &backend{
			conversations: store.Conversations,
			messages:      store.Messages,
			hires:         store.HireRequests,
			profiles:      store.Profiles,
			roster:        store.Profiles,
			close: func() {
				logger.Info("Disconnecting MongoDB...")
				_ = client.Disconnect(context.Background())
			},
		}, nil

	case internal.DriverPostgres:
		db, err := pgstore.Connect(config.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store := pgstore.NewStore(db, logger)
		if err := store.InitializeTables(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		logger.Info("Using PostgreSQL store")
		return &backend{
			conversations: store.Conversations,
			messages:      store.Messages,
			hires:         store.HireRequests,
			profiles:      store.Profiles,
			roster:        store.Profiles,
			close: func() {
				logger.Info("Closing PostgreSQL...")
				_ = store.Close()
			},
		}, nil
	}

	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		url := fmt.Sprintf("http://localhost:%d%s", debugPort, debugEndpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, debugPort, debugEndpoint, RecordMapper)
	}
	store := storage.NewStore(db, logger)
	logger.Info("Using BadgerDB store", "path", config.BadgerFilepath)
	return &backend{
		conversations: store.Conversations,
		messages:      store.Messages,
		hires:         store.HireRequests,
		profiles:      store.Profiles,
		roster:        store.Profiles,
		close: func() {
			// Releases the directory lock and flushes the memtables.
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		},
	}, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// RecordMapper renders stored records in the debug inspector.
func RecordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	entry := storage.Describe(key, val)
	row.Type = entry.Kind
	row.Detail = entry.Detail
	return row
}
