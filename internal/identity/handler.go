package identity

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/course-api/course_api/internal/apperr"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// Response is the public view of a user; it never includes the password hash.
type Response struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// NewResponse projects a user onto its public view.
func NewResponse(u User) Response {
	return Response{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, EmailAddress: u.EmailAddress}
}

// Register handles user onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := apperr.BindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.service.Register(c.UserContext(), RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		Password:     req.Password,
	})
	if err != nil {
		return err
	}
	if h.logger != nil {
		h.logger.Info("user registered", slog.Int64("user_id", user.ID))
	}
	c.Location("/")
	return c.Status(http.StatusCreated).Send(nil)
}

// Current returns the authenticated user, reloaded from the store. A user
// removed after authentication reads as unauthenticated.
func (h *Handler) Current(c *fiber.Ctx) error {
	caller, ok := FromContext(c.UserContext())
	if !ok {
		return apperr.Unauthenticated()
	}
	user, err := h.service.Get(c.UserContext(), caller.ID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.Unauthenticated()
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(NewResponse(user))
}
