package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/infra"
)

func newSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()
	db, err := infra.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	m, err := infra.NewSQLiteMigrator(db)
	require.NoError(t, err)
	_, err = m.Up(ctx)
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

// repositories runs a test against every non-network backend.
func repositories(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryRepository()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteRepo(t)) })
}

func validInput() RegisterInput {
	return RegisterInput{FirstName: "A", LastName: "B", EmailAddress: "a@b.com", Password: "x"}
}

func TestRegisterHashesPasswordOnce(t *testing.T) {
	repositories(t, func(t *testing.T, repo Repository) {
		svc := NewService(repo, bcrypt.MinCost)
		ctx := context.Background()

		user, err := svc.Register(ctx, validInput())
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, []byte("x"), user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("x")))

		stored, err := repo.FindByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		assert.Equal(t, user.PasswordHash, stored.PasswordHash)
	})
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repositories(t, func(t *testing.T, repo Repository) {
		svc := NewService(repo, bcrypt.MinCost)
		in := validInput()
		in.EmailAddress = "  Ada@Example.COM "

		user, err := svc.Register(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.EmailAddress)
	})
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repositories(t, func(t *testing.T, repo Repository) {
		svc := NewService(repo, bcrypt.MinCost)
		ctx := context.Background()

		_, err := svc.Register(ctx, validInput())
		require.NoError(t, err)

		dup := validInput()
		dup.EmailAddress = "A@B.com"
		_, err = svc.Register(ctx, dup)
		require.Error(t, err)

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindInvalid, appErr.Kind)
		assert.Equal(t, []string{MsgEmailTaken}, appErr.Messages)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestRegisterAggregatesViolations(t *testing.T) {
	svc := NewService(NewMemoryRepository(), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), RegisterInput{LastName: "B", Password: " "})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInvalid, appErr.Kind)
	assert.Equal(t, []string{MsgFirstNameRequired, MsgEmailRequired, MsgPasswordRequired}, appErr.Messages)
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository(), bcrypt.MinCost)
	in := validInput()
	in.EmailAddress = "not-an-email"

	_, err := svc.Register(context.Background(), in)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{MsgEmailInvalid}, appErr.Messages)
}

func TestGet(t *testing.T) {
	repositories(t, func(t *testing.T, repo Repository) {
		svc := NewService(repo, bcrypt.MinCost)
		ctx := context.Background()
		user, err := svc.Register(ctx, validInput())
		require.NoError(t, err)

		got, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", got.FirstName)

		_, err = svc.Get(ctx, user.ID+100)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), User{ID: 7, EmailAddress: "a@b.com"})
	user, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), user.ID)
}
