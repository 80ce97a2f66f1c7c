package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/course-api/course_api/internal/course"
)

// RegisterCourseRoutes wires course endpoints. Reads are public; writes run
// authentication before the idempotency cache so replays stay per user.
func RegisterCourseRoutes(r fiber.Router, h *course.Handler, authenticate, idempotent fiber.Handler) {
	r.Get("/courses", h.List)
	r.Get("/courses/:id", h.Get)
	r.Post("/courses", authenticate, idempotent, h.Create)
	r.Put("/courses/:id", authenticate, idempotent, h.Update)
	r.Delete("/courses/:id", authenticate, idempotent, h.Delete)
}
