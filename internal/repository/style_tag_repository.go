package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/image-platform/internal/domain"
)

// StyleTagRepository defines persistence access for style tags.
type StyleTagRepository interface {
	Create(ctx context.Context, tag *domain.StyleTag) error
	Delete(ctx context.Context, id string) error
	GetByName(ctx context.Context, name string) (*domain.StyleTag, error)
	List(ctx context.Context, category string) ([]*domain.StyleTag, error)
	ListPopular(ctx context.Context, limit int) ([]*domain.StyleTag, error)
	BumpPopularity(ctx context.Context, names []string) error
}

type styleTagRepository struct {
	pool *pgxpool.Pool
}

// NewStyleTagRepository returns a Postgres-backed implementation.
func NewStyleTagRepository(pool *pgxpool.Pool) StyleTagRepository {
	return &styleTagRepository{pool: pool}
}

const styleTagColumns = `id, name, category, type, description, popularity, created_by_system, created_at, updated_at`

func (r *styleTagRepository) Create(ctx context.Context, tag *domain.StyleTag) error {
	const query = `
        INSERT INTO style_tags (name, category, type, description, created_by_system)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		tag.Name,
		tag.Category,
		string(tag.Type),
		tag.Description,
		tag.CreatedBySystem,
	).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
}

func (r *styleTagRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM style_tags WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *styleTagRepository) GetByName(ctx context.Context, name string) (*domain.StyleTag, error) {
	const query = `SELECT ` + styleTagColumns + ` FROM style_tags WHERE name=$1`
	return r.scanTag(r.pool.QueryRow(ctx, query, name))
}

func (r *styleTagRepository) List(ctx context.Context, category string) ([]*domain.StyleTag, error) {
	query := `SELECT ` + styleTagColumns + ` FROM style_tags ORDER BY category, name`
	args := []any{}
	if category != "" {
		query = `SELECT ` + styleTagColumns + ` FROM style_tags WHERE category=$1 ORDER BY name`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *styleTagRepository) ListPopular(ctx context.Context, limit int) ([]*domain.StyleTag, error) {
	const query = `SELECT ` + styleTagColumns + ` FROM style_tags ORDER BY popularity DESC, name LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *styleTagRepository) BumpPopularity(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE style_tags SET popularity = popularity + 1, updated_at = NOW() WHERE name = ANY($1)`, names)
	return err
}

func (r *styleTagRepository) collect(rows pgx.Rows) ([]*domain.StyleTag, error) {
	var tags []*domain.StyleTag
	for rows.Next() {
		tag, err := r.scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *styleTagRepository) scanTag(row pgx.Row) (*domain.StyleTag, error) {
	var tag domain.StyleTag
	var typ string
	if err := row.Scan(
		&tag.ID,
		&tag.Name,
		&tag.Category,
		&typ,
		&tag.Description,
		&tag.Popularity,
		&tag.CreatedBySystem,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tag.Type = domain.TagType(typ)
	return &tag, nil
}
