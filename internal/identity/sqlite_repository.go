package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteRepository implements Repository on a database/sql SQLite handle.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository builds a SQLite-backed identity repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user User) (User, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (first_name, last_name, email_address, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.EmailAddress, string(user.PasswordHash), user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	if err != nil {
		return User{}, mapWriteError(err)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return User{}, fmt.Errorf("read user id: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email_address = ?`, email)
	return scanSQLiteUser(row)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanSQLiteUser(row)
}

func scanSQLiteUser(row *sql.Row) (User, error) {
	var (
		user User
		hash string
	)
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.EmailAddress, &hash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.PasswordHash = []byte(hash)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}
