package course

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/identity"
)

// Handler exposes course HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a course HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type writeRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimatedTime"`
	MaterialsNeeded string `json:"materialsNeeded"`
}

func (r writeRequest) input() Input {
	return Input{
		Title:           r.Title,
		Description:     r.Description,
		EstimatedTime:   r.EstimatedTime,
		MaterialsNeeded: r.MaterialsNeeded,
	}
}

type ownerResponse struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// Response is the public view of a course with its owner embedded.
type Response struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	EstimatedTime   string        `json:"estimatedTime"`
	MaterialsNeeded string        `json:"materialsNeeded"`
	OwnerID         int64         `json:"ownerId"`
	Owner           ownerResponse `json:"owner"`
}

// NewResponse projects a course onto its public view.
func NewResponse(c Course) Response {
	return Response{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		OwnerID:         c.OwnerID,
		Owner: ownerResponse{
			ID:           c.Owner.ID,
			FirstName:    c.Owner.FirstName,
			LastName:     c.Owner.LastName,
			EmailAddress: c.Owner.EmailAddress,
		},
	}
}

// List returns every course, optionally narrowed by ?ownerId=.
func (h *Handler) List(c *fiber.Ctx) error {
	var filter Filter
	if raw := c.Query("ownerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return apperr.Invalid("ownerId must be a positive integer")
		}
		filter.OwnerID = id
	}

	courses, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	out := make([]Response, 0, len(courses))
	for _, course := range courses {
		out = append(out, NewResponse(course))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single course.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := courseID(c)
	if !ok {
		return apperr.NotFound(apperr.MsgCourseNotFound)
	}
	course, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(NewResponse(course))
}

// Create stores a course owned by the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	user, ok := identity.FromContext(c.UserContext())
	if !ok {
		return apperr.Unauthenticated()
	}
	var req writeRequest
	if err := apperr.BindJSON(c, &req); err != nil {
		return err
	}
	course, err := h.service.Create(c.UserContext(), user, req.input())
	if err != nil {
		return err
	}
	c.Location("/api/courses/" + strconv.FormatInt(course.ID, 10))
	return c.Status(http.StatusCreated).Send(nil)
}

// Update rewrites a course the authenticated user owns.
func (h *Handler) Update(c *fiber.Ctx) error {
	user, ok := identity.FromContext(c.UserContext())
	if !ok {
		return apperr.Unauthenticated()
	}
	var req writeRequest
	if err := apperr.BindJSON(c, &req); err != nil {
		return err
	}
	id, ok := courseID(c)
	if !ok {
		return apperr.NotFound(apperr.MsgCourseNotFound)
	}
	if err := h.service.Update(c.UserContext(), user, id, req.input()); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

// Delete removes a course the authenticated user owns.
func (h *Handler) Delete(c *fiber.Ctx) error {
	user, ok := identity.FromContext(c.UserContext())
	if !ok {
		return apperr.Unauthenticated()
	}
	id, ok := courseID(c)
	if !ok {
		return apperr.NotFound(apperr.MsgCourseNotFound)
	}
	if err := h.service.Delete(c.UserContext(), user, id); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

func courseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
