package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/green-campus/internal/domain"
)

type postgresDashboardRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDashboardRepository returns a Postgres-backed implementation.
func NewPostgresDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &postgresDashboardRepository{pool: pool}
}

func (r *postgresDashboardRepository) Get(ctx context.Context) (*domain.Dashboard, error) {
	var data []byte
	if err := r.pool.QueryRow(ctx, `SELECT data FROM dashboard WHERE id=1`).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find dashboard: %w", err)
	}
	var rec dashboardRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	d := rec.toDomain()
	return &d, nil
}

func (r *postgresDashboardRepository) Save(ctx context.Context, dashboard domain.Dashboard) error {
	const query = `
        INSERT INTO dashboard (id, data, updated_at)
        VALUES (1, $1::jsonb, NOW())
        ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=NOW()`

	payload, err := json.Marshal(dashboardToRecord(dashboard))
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, string(payload)); err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}
