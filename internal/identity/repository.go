package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/course-api/course_api/internal/infra"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, first_name, last_name, email_address, password_hash, created_at, updated_at`

// Create inserts a new user and returns it with its assigned id.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO users (first_name, last_name, email_address, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		user.FirstName, user.LastName, user.EmailAddress, string(user.PasswordHash), user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	).Scan(&user.ID)
	if err != nil {
		return User{}, mapWriteError(err)
	}
	return user, nil
}

// FindByEmail fetches a user by normalized email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email_address = $1`, email)
	return scanPostgresUser(row)
}

// FindByID fetches a user by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanPostgresUser(row)
}

func scanPostgresUser(row pgx.Row) (User, error) {
	var (
		user User
		hash string
	)
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.EmailAddress, &hash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.PasswordHash = []byte(hash)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

// mapWriteError turns a unique violation on the email column into
// ErrEmailTaken; any other failure is returned wrapped.
func mapWriteError(err error) error {
	if c, ok := infra.ClassifyConstraint(err); ok && c.Kind == infra.ConstraintUnique {
		return fmt.Errorf("%w: %s", ErrEmailTaken, c.Name)
	}
	return fmt.Errorf("insert user: %w", err)
}
