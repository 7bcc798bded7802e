package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/domain"
	autherror "github.com/Fakhir-Israr-200219/auth-service/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, username, password_hash, first_name, last_name, gender,
		refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

// Querier is the subset of pgxpool.Pool the repository needs; it is also
// satisfied by pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db Querier
}

func NewPostgresUserRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE lower(email) = lower($1)
		LIMIT 1;
	`, userColumns)

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1
		LIMIT 1;
	`, userColumns)

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE refresh_token_hash = $1
		LIMIT 1;
	`, userColumns)

	return r.getOne(ctx, query, hash)
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, first_name, last_name, gender,
			refresh_token_hash, refresh_token_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Gender, user.RefreshTokenHash, user.RefreshTokenExpiresAt, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, username = $3, password_hash = $4, first_name = $5, last_name = $6,
			gender = $7, refresh_token_hash = $8, refresh_token_expires_at = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Gender, user.RefreshTokenHash, user.RefreshTokenExpiresAt, user.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, arg)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Gender,
		&user.RefreshTokenHash, &user.RefreshTokenExpiresAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// mapUniqueViolation converts Postgres unique-constraint errors into domain
// sentinels so the service can react without inspecting driver types.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return autherror.ErrEmailAlreadyInUse
		case "users_username_key":
			return autherror.ErrUsernameTaken
		}
	}

	return fmt.Errorf("failed to write user: %w", err)
}
