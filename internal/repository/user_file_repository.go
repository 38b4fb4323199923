package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/green-campus/internal/domain"
)

// fileUserRepository keeps users in a JSON array file, re-read on every call.
type fileUserRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileUserRepository returns a flat-file implementation.
func NewFileUserRepository(path string) UserRepository {
	return &fileUserRepository{path: path}
}

func (r *fileUserRepository) load() ([]userRecord, error) {
	records := []userRecord{}
	if _, err := readJSON(r.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fileUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Email == user.Email {
			return ErrAlreadyExists
		}
	}

	user.ID = newID()
	user.CreatedAt = time.Now().UTC()
	records = append(records, userToRecord(user))
	return writeJSON(r.path, records)
}

func (r *fileUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Email == email {
			return rec.toDomain(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUserRepository) List(_ context.Context) ([]domain.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Time().After(records[j].CreatedAt.Time())
	})
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, *rec.toDomain())
	}
	return users, nil
}
