package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/course-api/course_api/internal/config"
	"github.com/course-api/course_api/internal/logging"
	"github.com/course-api/course_api/internal/routes"
)

func TestNewRendersErrorsThroughAppHandler(t *testing.T) {
	srv, err := New(routes.Deps{
		Cfg:    config.Config{AppName: "CourseAPI", AppEnv: "test", Port: "0", BcryptCost: bcrypt.MinCost, CORSOrigin: "*"},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="CourseAPI"`, resp.Header.Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"message":"Access Denied"}`, string(body))
}

func TestNewFailsWithoutDatabaseInProduction(t *testing.T) {
	_, err := New(routes.Deps{
		Cfg:    config.Config{AppEnv: "production", BcryptCost: bcrypt.MinCost},
		Logger: logging.Discard(),
	})
	assert.Error(t, err)
}
