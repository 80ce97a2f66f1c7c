package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusOK          = "ok"
	statusDisabled    = "disabled"
	statusUnavailable = "unavailable"
)

// RegisterHealthRoutes adds a readiness endpoint that pings each configured
// backing store. Failure causes are logged, never returned.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus := statusOK
		redisStatus := statusDisabled

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		var dbErr error
		switch {
		case d.DB != nil:
			dbErr = d.DB.Ping(ctx)
		case d.SQL != nil:
			dbErr = d.SQL.PingContext(ctx)
		}
		if dbErr != nil {
			dbStatus = statusUnavailable
			d.Logger.Warn("health check failed", slog.String("component", "database"), slog.Any("error", dbErr))
		}
		if d.Cache != nil {
			redisStatus = statusOK
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = statusUnavailable
				d.Logger.Warn("health check failed", slog.String("component", "redis"), slog.Any("error", err))
			}
		}

		status := http.StatusOK
		if dbStatus == statusUnavailable || redisStatus == statusUnavailable {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"database": dbStatus, "redis": redisStatus},
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
