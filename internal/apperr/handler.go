package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler returns the application's single top-level Fiber error handler.
// Classified errors become their fixed response shapes; everything else is
// logged and answered with a generic 500.
func Handler(logger *slog.Logger, realm string) fiber.ErrorHandler {
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(c *fiber.Ctx, err error) error {
		var appErr *Error
		if errors.As(err, &appErr) {
			return writeAppError(c, logger, challenge, appErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < http.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		return writeAppError(c, logger, challenge, Internal(err))
	}
}

func writeAppError(c *fiber.Ctx, logger *slog.Logger, challenge string, e *Error) error {
	status := e.Kind.Status()
	switch e.Kind {
	case KindInvalid:
		messages := e.Messages
		if messages == nil {
			messages = []string{}
		}
		return c.Status(status).JSON(fiber.Map{"errors": messages})
	case KindUnauthenticated:
		c.Set(fiber.HeaderWWWAuthenticate, challenge)
		return c.Status(status).JSON(fiber.Map{"message": MsgUnauthenticated})
	case KindAccessDenied:
		return c.Status(status).JSON(fiber.Map{"message": MsgNotOwner})
	case KindNotFound:
		msg := MsgCourseNotFound
		if len(e.Messages) > 0 {
			msg = e.Messages[0]
		}
		return c.Status(status).JSON(fiber.Map{"message": msg})
	default:
		if logger != nil {
			logger.Error("unhandled request error",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("request_id", c.GetRespHeader("X-Request-ID")),
				slog.Any("error", e.Err),
			)
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": MsgInternal})
	}
}
