package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/logging"
)

func currentApp(svc *Service, caller User) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(logging.Discard(), "test")})
	app.Get("/me", func(c *fiber.Ctx) error {
		c.SetUserContext(WithUser(c.UserContext(), caller))
		return c.Next()
	}, NewHandler(svc, logging.Discard()).Current)
	return app
}

func TestCurrentReloadsUser(t *testing.T) {
	svc := NewService(NewMemoryRepository(), bcrypt.MinCost)
	user, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	// stale context copy; the response must reflect the store
	stale := user
	stale.FirstName = "Stale"
	resp, err := currentApp(svc, stale).Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out Response
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, user.ID, out.ID)
	assert.Equal(t, "A", out.FirstName)
	assert.NotContains(t, string(raw), "password")
}

func TestCurrentWithVanishedUserIsUnauthenticated(t *testing.T) {
	svc := NewService(NewMemoryRepository(), bcrypt.MinCost)

	resp, err := currentApp(svc, User{ID: 404}).Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Access Denied"}`, string(raw))
}
