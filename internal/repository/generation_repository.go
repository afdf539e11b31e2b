package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/image-platform/internal/domain"
)

// GenerationRepository defines persistence access for generation history.
type GenerationRepository interface {
	Create(ctx context.Context, rec *domain.GenerationRecord) error
	GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.GenerationRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.GenerationStatus, errorMessage *string, imageID *string) error
}

type generationRepository struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository returns a Postgres-backed implementation.
func NewGenerationRepository(pool *pgxpool.Pool) GenerationRepository {
	return &generationRepository{pool: pool}
}

const generationColumns = `id, user_id, image_id, status, error_message, retry_count, credits_used,
        prompt, negative_prompt, style_tags, ratio, quality, created_at, updated_at`

func (r *generationRepository) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	const query = `
        INSERT INTO generation_history (user_id, status, credits_used, prompt, negative_prompt, style_tags, ratio, quality)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		rec.UserID,
		string(rec.Status),
		rec.CreditsUsed,
		rec.Prompt,
		rec.NegativePrompt,
		rec.StyleTags,
		rec.Ratio,
		string(rec.Quality),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *generationRepository) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	const query = `SELECT ` + generationColumns + ` FROM generation_history WHERE id=$1`
	return r.scanRecord(r.pool.QueryRow(ctx, query, id))
}

func (r *generationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.GenerationRecord, error) {
	const query = `SELECT ` + generationColumns + `
        FROM generation_history WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.GenerationRecord
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *generationRepository) UpdateStatus(ctx context.Context, id string, status domain.GenerationStatus, errorMessage *string, imageID *string) error {
	const query = `
        UPDATE generation_history SET status=$1, error_message=$2, image_id=COALESCE($3, image_id), updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query, string(status), errorMessage, imageID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *generationRepository) scanRecord(row pgx.Row) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	var status, quality string
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ImageID,
		&status,
		&rec.ErrorMessage,
		&rec.RetryCount,
		&rec.CreditsUsed,
		&rec.Prompt,
		&rec.NegativePrompt,
		&rec.StyleTags,
		&rec.Ratio,
		&quality,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Status = domain.GenerationStatus(status)
	rec.Quality = domain.ImageQuality(quality)
	return &rec, nil
}
