package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/green-campus/internal/domain"
)

// fileDashboardRepository keeps the dataset as a single JSON object.
type fileDashboardRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileDashboardRepository returns a flat-file implementation.
func NewFileDashboardRepository(path string) DashboardRepository {
	return &fileDashboardRepository{path: path}
}

func (r *fileDashboardRepository) Get(_ context.Context) (*domain.Dashboard, error) {
	var rec dashboardRecord
	found, err := readJSON(r.path, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	d := rec.toDomain()
	return &d, nil
}

func (r *fileDashboardRepository) Save(_ context.Context, dashboard domain.Dashboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.path, dashboardToRecord(dashboard))
}
