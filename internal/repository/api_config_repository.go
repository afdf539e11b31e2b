package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/image-platform/internal/domain"
)

// APIConfigRepository defines persistence access for provider configurations.
type APIConfigRepository interface {
	Create(ctx context.Context, cfg *domain.APIConfig) error
	Update(ctx context.Context, cfg *domain.APIConfig) error
	Delete(ctx context.Context, id, userID string) error
	GetByID(ctx context.Context, id string) (*domain.APIConfig, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.APIConfig, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type apiConfigRepository struct {
	pool *pgxpool.Pool
}

// NewAPIConfigRepository returns a Postgres-backed implementation.
func NewAPIConfigRepository(pool *pgxpool.Pool) APIConfigRepository {
	return &apiConfigRepository{pool: pool}
}

const apiConfigColumns = `id, user_id, name, type, provider, base_url, api_key, model, is_active, created_at, updated_at`

func (r *apiConfigRepository) Create(ctx context.Context, cfg *domain.APIConfig) error {
	const query = `
        INSERT INTO api_configs (user_id, name, type, provider, base_url, api_key, model, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		cfg.UserID,
		cfg.Name,
		string(cfg.Type),
		cfg.Provider,
		cfg.BaseURL,
		cfg.APIKey,
		cfg.Model,
		cfg.IsActive,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
}

func (r *apiConfigRepository) Update(ctx context.Context, cfg *domain.APIConfig) error {
	const query = `
        UPDATE api_configs SET name=$1, type=$2, provider=$3, base_url=$4, api_key=$5,
            model=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8 AND user_id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		cfg.Name,
		string(cfg.Type),
		cfg.Provider,
		cfg.BaseURL,
		cfg.APIKey,
		cfg.Model,
		cfg.IsActive,
		cfg.ID,
		cfg.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *apiConfigRepository) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM api_configs WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *apiConfigRepository) GetByID(ctx context.Context, id string) (*domain.APIConfig, error) {
	const query = `SELECT ` + apiConfigColumns + ` FROM api_configs WHERE id=$1`
	return r.scanConfig(r.pool.QueryRow(ctx, query, id))
}

func (r *apiConfigRepository) ListByUser(ctx context.Context, userID string) ([]*domain.APIConfig, error) {
	const query = `SELECT ` + apiConfigColumns + ` FROM api_configs WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*domain.APIConfig
	for rows.Next() {
		cfg, err := r.scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *apiConfigRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM api_configs WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

func (r *apiConfigRepository) scanConfig(row pgx.Row) (*domain.APIConfig, error) {
	var cfg domain.APIConfig
	var typ string
	if err := row.Scan(
		&cfg.ID,
		&cfg.UserID,
		&cfg.Name,
		&typ,
		&cfg.Provider,
		&cfg.BaseURL,
		&cfg.APIKey,
		&cfg.Model,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cfg.Type = domain.APIType(typ)
	return &cfg, nil
}
