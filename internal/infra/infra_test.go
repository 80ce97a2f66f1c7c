package infra

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/course-api/course_api/internal/config"
)

func newSQLiteMigrator(t *testing.T) *Migrator {
	t.Helper()
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "data", "courses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := NewSQLiteMigrator(db)
	require.NoError(t, err)
	return m
}

func TestSQLiteMigrationsUpDownStatus(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteMigrator(t)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	again, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	states, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, int64(1), states[0].Version)
	assert.True(t, states[0].Applied)

	require.NoError(t, m.Down(ctx))
	states, err = m.Status(ctx)
	require.NoError(t, err)
	assert.False(t, states[0].Applied)
	assert.NoError(t, m.Close())
}

func TestClassifySQLiteConstraints(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	m, err := NewSQLiteMigrator(db)
	require.NoError(t, err)
	_, err = m.Up(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	insertUser := `INSERT INTO users (first_name, last_name, email_address, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, insertUser, "A", "B", "a@b.com", "hash", now, now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insertUser, "C", "D", "a@b.com", "hash", now, now)
	c, ok := ClassifyConstraint(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, ConstraintUnique, c.Kind)
	assert.Equal(t, "users.email_address", c.Name)
	assert.Equal(t, "email_address", c.Column)

	_, err = db.ExecContext(ctx, `INSERT INTO courses (title, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`, "T", "D", 999, now, now)
	c, ok = ClassifyConstraint(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, ConstraintForeignKey, c.Kind)
}

func TestClassifyPostgresConstraints(t *testing.T) {
	cases := map[string]ConstraintKind{
		"23505": ConstraintUnique,
		"23502": ConstraintNotNull,
		"23503": ConstraintForeignKey,
		"23514": ConstraintCheck,
	}
	for code, want := range cases {
		err := wrapInsert(&pgconn.PgError{Code: code, ConstraintName: "users_email_address_key"})
		c, ok := ClassifyConstraint(err)
		require.True(t, ok, code)
		assert.Equal(t, want, c.Kind, code)
		assert.Equal(t, "users_email_address_key", c.Name)
	}

	_, ok := ClassifyConstraint(&pgconn.PgError{Code: "40001"})
	assert.False(t, ok)
	_, ok = ClassifyConstraint(errors.New("duplicate"))
	assert.False(t, ok)
	_, ok = ClassifyConstraint(nil)
	assert.False(t, ok)
}

func wrapInsert(err error) error {
	return errors.Join(errors.New("insert user"), err)
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	client, err := NewRedisClient(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NoError(t, client.Close())

	_, err = NewRedisClient(ctx, "://nope")
	assert.Error(t, err)
}

func TestOpenStoreBySQLiteURL(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{DatabaseURL: "sqlite:" + filepath.Join(t.TempDir(), "courses.db")}

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()
	require.NotNil(t, store.SQL)
	assert.Nil(t, store.Pool)

	applied, err := store.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestOpenStoreInMemory(t *testing.T) {
	store, err := OpenStore(context.Background(), config.Config{})
	require.NoError(t, err)

	applied, err := store.Migrate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)

	_, err = store.Migrator()
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.NoError(t, store.Close())
}
