package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/auth"
	"github.com/course-api/course_api/internal/identity"
)

// BasicAuth authenticates the request from its Authorization header. On
// success the user is bound to the request's user context; on any rejection
// the specific reason goes to the operator log and the caller gets the same
// uniform 401.
func BasicAuth(authenticator *auth.Authenticator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		outcome, err := authenticator.Authenticate(ctx, c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return apperr.Internal(err)
		}

		if !outcome.Authenticated() {
			requestID, _ := c.Locals(requestIDHeader).(string)
			logger.Warn("authentication rejected",
				slog.String("reason", outcome.Reason.String()),
				slog.String("username", outcome.Name),
				slog.String("path", c.Path()),
				slog.String("request_id", requestID),
			)
			return apperr.Unauthenticated()
		}

		logger.Debug("authentication succeeded", slog.Int64("user_id", outcome.User.ID))
		c.SetUserContext(identity.WithUser(ctx, outcome.User))
		return c.Next()
	}
}
