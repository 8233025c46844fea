package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/contact/internal/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoopts "go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewMongoClient creates a MongoDB client for uri. The client connects lazily;
// MongoContactRepository.Connect verifies reachability.
func NewMongoClient(uri string) (*mongo.Client, error) {
	return mongo.Connect(mongoopts.Client().ApplyURI(uri))
}

// Open builds the ContactRepository selected by cfg.StoreDriver and verifies
// the backend is reachable.
func Open(ctx context.Context, cfg *config.Config) (ContactRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := NewMongoClient(cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		repo := NewMongoContactRepository(client,
			WithDatabase(cfg.MongoDatabase),
			WithTimeout(cfg.StoreTimeout),
			WithLogger(slog.Default().With("component", "mongo")),
		)
		if err := repo.Connect(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return repo, nil
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		return NewPgContactRepository(pool), nil
	case config.DriverMemory:
		return NewMemoryContactRepository(nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
}
