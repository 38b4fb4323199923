package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
)

// Backend is the storage chosen at startup. Kind is never StorageAuto.
type Backend struct {
	Kind     config.StorageBackend
	Mongo    *Mongo
	Postgres *Postgres
	DataDir  string
}

// SelectBackend decides once, for the lifetime of the process, where entities live.
// In auto mode the document store is probed and any failure falls back to flat files.
// A backend requested explicitly must connect or startup fails.
func SelectBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		return fileBackend(cfg.Storage, logger)
	case config.StorageMongo:
		return mongoBackend(ctx, cfg.Mongo, logger)
	case config.StoragePostgres:
		return postgresBackend(ctx, cfg.Postgres, logger)
	case config.StorageAuto, "":
		backend, err := mongoBackend(ctx, cfg.Mongo, logger)
		if err == nil {
			return backend, nil
		}
		logger.Warn("mongodb not available; using file-based storage", zap.Error(err))
		return fileBackend(cfg.Storage, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func mongoBackend(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Backend, error) {
	m, err := NewMongo(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := m.CreateIndexes(ctx); err != nil {
		logger.Warn("failed to create mongodb indexes", zap.Error(err))
	}
	logger.Info("storage backend selected", zap.String("backend", string(config.StorageMongo)))
	return &Backend{Kind: config.StorageMongo, Mongo: m}, nil
}

func postgresBackend(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Backend, error) {
	pg, err := NewPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.RunMigrations {
		if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, err
		}
	}
	logger.Info("storage backend selected", zap.String("backend", string(config.StoragePostgres)))
	return &Backend{Kind: config.StoragePostgres, Postgres: pg}, nil
}

func fileBackend(cfg config.StorageConfig, logger *zap.Logger) (*Backend, error) {
	dir := strings.TrimSpace(cfg.DataDir)
	if dir == "" {
		return nil, errors.New("DATA_DIR is required for file storage")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logger.Info("storage backend selected",
		zap.String("backend", string(config.StorageFile)),
		zap.String("data_dir", dir))
	return &Backend{Kind: config.StorageFile, DataDir: dir}, nil
}

// Ping checks the selected backend.
func (b *Backend) Ping(ctx context.Context) error {
	switch b.Kind {
	case config.StorageMongo:
		return b.Mongo.Ping(ctx)
	case config.StoragePostgres:
		return b.Postgres.Ping(ctx)
	default:
		_, err := os.Stat(b.DataDir)
		return err
	}
}

// Close releases backend connections.
func (b *Backend) Close(ctx context.Context) {
	if b == nil {
		return
	}
	if b.Mongo != nil {
		_ = b.Mongo.Close(ctx)
	}
	b.Postgres.Close()
}
