package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
)

func TestSelectBackendFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := config.Config{Storage: config.StorageConfig{Backend: config.StorageFile, DataDir: dir}}

	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close(context.Background())

	assert.Equal(t, config.StorageFile, backend.Kind)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, backend.Ping(context.Background()))
}

func TestSelectBackendAutoFallsBackToFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := config.Config{
		Storage: config.StorageConfig{Backend: config.StorageAuto, DataDir: dir},
		Mongo:   config.MongoConfig{URI: "not-a-mongodb-uri", Database: "green_campus", ConnectTimeoutSeconds: 1},
	}

	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, config.StorageFile, backend.Kind)
	assert.Nil(t, backend.Mongo)
	assert.DirExists(t, dir)
}

func TestSelectBackendForcedMongoFails(t *testing.T) {
	cfg := config.Config{
		Storage: config.StorageConfig{Backend: config.StorageMongo, DataDir: t.TempDir()},
		Mongo:   config.MongoConfig{URI: "not-a-mongodb-uri", Database: "green_campus", ConnectTimeoutSeconds: 1},
	}

	_, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSelectBackendPostgresRequiresDSN(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Backend: config.StoragePostgres}}

	_, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSelectBackendMongoIntegration(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}
	cfg := config.Config{
		Storage: config.StorageConfig{Backend: config.StorageAuto, DataDir: t.TempDir()},
		Mongo:   config.MongoConfig{URI: uri, Database: "green_campus_test", ConnectTimeoutSeconds: 5},
	}

	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close(context.Background())

	assert.Equal(t, config.StorageMongo, backend.Kind)
	assert.NoError(t, backend.Ping(context.Background()))
}
