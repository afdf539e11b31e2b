package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/image-platform/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	DebitCredits(ctx context.Context, userID string, amount int, today string, allowance int) (bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, username, password_hash, avatar_url, bio, plan,
        is_active, is_verified, is_superuser,
        total_credits_used, credits_used_today, generations_today, last_generation_at,
        created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, username, password_hash, plan, is_active, is_verified, is_superuser)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		string(user.Plan),
		user.IsActive,
		user.IsVerified,
		user.IsSuperuser,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, username=$2, password_hash=$3, avatar_url=$4, bio=$5,
            plan=$6, is_active=$7, is_verified=$8, is_superuser=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.AvatarURL,
		user.Bio,
		string(user.Plan),
		user.IsActive,
		user.IsVerified,
		user.IsSuperuser,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

// DebitCredits performs the atomic conditional debit the credit ledger relies
// on. The WHERE clause re-checks the remaining budget at write time, so two
// concurrent debits can never both succeed against one remaining amount.
// Daily counters restart when last_generation_at is not today (a NULL value
// also reads as a fresh day); the lifetime counter only ever grows.
func (r *userRepository) DebitCredits(ctx context.Context, userID string, amount int, today string, allowance int) (bool, error) {
	const query = `
        UPDATE users SET
            total_credits_used = total_credits_used + $2,
            credits_used_today = CASE WHEN last_generation_at = $3 THEN credits_used_today + $2 ELSE $2 END,
            generations_today  = CASE WHEN last_generation_at = $3 THEN generations_today + 1 ELSE 1 END,
            last_generation_at = $3,
            updated_at         = NOW()
        WHERE id = $1
          AND COALESCE(CASE WHEN last_generation_at = $3 THEN credits_used_today END, 0) + $2 <= $4`

	cmd, err := r.pool.Exec(ctx, query, userID, amount, today, allowance)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var plan string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Bio,
		&plan,
		&user.IsActive,
		&user.IsVerified,
		&user.IsSuperuser,
		&user.TotalCreditsUsed,
		&user.CreditsUsedToday,
		&user.GenerationsToday,
		&user.LastGenerationAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Plan = domain.PlanFromString(plan)
	return &user, nil
}
