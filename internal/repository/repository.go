package repository

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/persistence"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Repositories bundles the entity stores for one backend.
type Repositories struct {
	Users     UserRepository
	Messages  MessageRepository
	Dashboard DashboardRepository
}

// New builds the entity stores for the backend chosen at startup.
func New(backend *persistence.Backend) (*Repositories, error) {
	if backend == nil {
		return nil, errors.New("storage backend is required")
	}
	switch backend.Kind {
	case config.StorageMongo:
		return &Repositories{
			Users:     NewUserRepository(backend.Mongo.Users()),
			Messages:  NewMessageRepository(backend.Mongo.Messages()),
			Dashboard: NewDashboardRepository(backend.Mongo.Dashboard()),
		}, nil
	case config.StoragePostgres:
		pool := backend.Postgres.PoolHandle()
		return &Repositories{
			Users:     NewPostgresUserRepository(pool),
			Messages:  NewPostgresMessageRepository(pool),
			Dashboard: NewPostgresDashboardRepository(pool),
		}, nil
	case config.StorageFile:
		return NewFileRepositories(backend.DataDir), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend.Kind)
	}
}

// NewFileRepositories builds flat-file stores rooted at dir.
func NewFileRepositories(dir string) *Repositories {
	return &Repositories{
		Users:     NewFileUserRepository(filepath.Join(dir, "users.json")),
		Messages:  NewFileMessageRepository(filepath.Join(dir, "messages.json")),
		Dashboard: NewFileDashboardRepository(filepath.Join(dir, "dashboard.json")),
	}
}

// newID generates an identifier shaped like a document store id so both backends agree on format.
func newID() string {
	return bson.NewObjectID().Hex()
}
