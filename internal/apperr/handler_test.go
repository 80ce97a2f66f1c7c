package apperr

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/course-api/course_api/internal/logging"
)

func newTestApp(t *testing.T, logs *bytes.Buffer, fail error) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: Handler(logging.NewWithWriter(logs, "debug"), "CourseAPI")})
	app.Get("/fail", func(c *fiber.Ctx) error { return fail })
	return app
}

func do(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestHandlerShapes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		key    string
		want   any
	}{
		{"invalid", Invalid("Title is required", "Description is required"), http.StatusBadRequest, "errors", []any{"Title is required", "Description is required"}},
		{"unauthenticated", Unauthenticated(), http.StatusUnauthorized, "message", MsgUnauthenticated},
		{"access denied", AccessDenied(), http.StatusForbidden, "message", MsgNotOwner},
		{"not found", NotFound(MsgCourseNotFound), http.StatusNotFound, "message", MsgCourseNotFound},
		{"wrapped invalid", errors.Join(errors.New("ctx"), Invalid("Email address must be unique")), http.StatusBadRequest, "errors", []any{"Email address must be unique"}},
		{"fiber client error", fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "message", "Method Not Allowed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			resp, body := do(t, newTestApp(t, &logs, tc.err), "/fail")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.want, body[tc.key])
			assert.Zero(t, logs.Len(), "classified errors are not logged as failures")
		})
	}
}

func TestHandlerUnauthenticatedChallenge(t *testing.T) {
	var logs bytes.Buffer
	resp, _ := do(t, newTestApp(t, &logs, Unauthenticated()), "/fail")
	assert.Equal(t, `Basic realm="CourseAPI"`, resp.Header.Get(fiber.HeaderWWWAuthenticate))
}

func TestHandlerHidesInternalErrors(t *testing.T) {
	var logs bytes.Buffer
	resp, body := do(t, newTestApp(t, &logs, errors.New("dial tcp 10.0.0.5:5432: connection refused")), "/fail")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, MsgInternal, body["message"])
	assert.NotContains(t, body["message"], "10.0.0.5")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindAccessDenied, KindOf(AccessDenied()))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}
