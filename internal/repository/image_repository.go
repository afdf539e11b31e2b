package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/image-platform/internal/domain"
)

// ImageRepository defines persistence access for generated images.
type ImageRepository interface {
	Create(ctx context.Context, img *domain.GeneratedImage) error
	GetByID(ctx context.Context, id string) (*domain.GeneratedImage, error)
	ListGallery(ctx context.Context, viewerID *string, limit, offset int) ([]*domain.GeneratedImage, error)
	IncrementLikes(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository returns a Postgres-backed implementation.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

const imageColumns = `id, user_id, api_config_id, url, thumbnail_url, filename, file_size,
        prompt, negative_prompt, style_tags, ratio, quality,
        generation_time, model_used, provider_used,
        is_public, likes, downloads, created_at, updated_at`

func (r *imageRepository) Create(ctx context.Context, img *domain.GeneratedImage) error {
	const query = `
        INSERT INTO generated_images (user_id, api_config_id, url, thumbnail_url, filename, file_size,
            prompt, negative_prompt, style_tags, ratio, quality,
            generation_time, model_used, provider_used, is_public)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		img.UserID,
		img.APIConfigID,
		img.URL,
		img.ThumbnailURL,
		img.Filename,
		img.FileSize,
		img.Prompt,
		img.NegativePrompt,
		img.StyleTags,
		img.Ratio,
		string(img.Quality),
		img.GenerationTime,
		img.ModelUsed,
		img.ProviderUsed,
		img.IsPublic,
	).Scan(&img.ID, &img.CreatedAt, &img.UpdatedAt)
}

func (r *imageRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedImage, error) {
	const query = `SELECT ` + imageColumns + ` FROM generated_images WHERE id=$1`
	return r.scanImage(r.pool.QueryRow(ctx, query, id))
}

// ListGallery returns public images, plus the viewer's own private ones when
// a viewer is present.
func (r *imageRepository) ListGallery(ctx context.Context, viewerID *string, limit, offset int) ([]*domain.GeneratedImage, error) {
	const query = `SELECT ` + imageColumns + `
        FROM generated_images
        WHERE is_public = TRUE OR user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*domain.GeneratedImage
	for rows.Next() {
		img, err := r.scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *imageRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, `UPDATE generated_images SET likes = likes + 1, updated_at = NOW() WHERE id=$1`, id)
}

func (r *imageRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.increment(ctx, `UPDATE generated_images SET downloads = downloads + 1, updated_at = NOW() WHERE id=$1`, id)
}

func (r *imageRepository) increment(ctx context.Context, query, id string) error {
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *imageRepository) scanImage(row pgx.Row) (*domain.GeneratedImage, error) {
	var img domain.GeneratedImage
	var quality string
	if err := row.Scan(
		&img.ID,
		&img.UserID,
		&img.APIConfigID,
		&img.URL,
		&img.ThumbnailURL,
		&img.Filename,
		&img.FileSize,
		&img.Prompt,
		&img.NegativePrompt,
		&img.StyleTags,
		&img.Ratio,
		&quality,
		&img.GenerationTime,
		&img.ModelUsed,
		&img.ProviderUsed,
		&img.IsPublic,
		&img.Likes,
		&img.Downloads,
		&img.CreatedAt,
		&img.UpdatedAt,
	); err != nil {
		return nil, err
	}
	img.Quality = domain.ImageQuality(quality)
	return &img, nil
}
