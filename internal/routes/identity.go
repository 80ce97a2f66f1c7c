package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/course-api/course_api/internal/identity"
)

// RegisterIdentityRoutes wires user endpoints. Registration is public and
// carries no caller scope, so it never goes through the idempotency cache.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, authenticate fiber.Handler) {
	r.Get("/users", authenticate, h.Current)
	r.Post("/users", h.Register)
}
