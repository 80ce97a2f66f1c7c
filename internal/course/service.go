package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/auth"
	"github.com/course-api/course_api/internal/identity"
	"github.com/course-api/course_api/internal/notification"
	"github.com/course-api/course_api/internal/validation"
)

// Caller-facing validation messages.
const (
	MsgTitleRequired       = "A title is required"
	MsgDescriptionRequired = "A description is required"
	MsgOwnerMissing        = "Course owner must reference an existing user"
)

var writeRules = []validation.Rule{
	{Field: "title", Message: MsgTitleRequired},
	{Field: "description", Message: MsgDescriptionRequired},
}

// Service runs course reads and the validate, authorize, persist sequence
// for writes.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithNotifier publishes a lifecycle message after each successful write.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService builds a course service instance.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all courses matching filter, owners included.
func (s *Service) List(ctx context.Context, filter Filter) ([]Course, error) {
	return s.repo.FindAll(ctx, filter)
}

// Get returns one course or a NotFound failure.
func (s *Service) Get(ctx context.Context, id int64) (Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Course{}, apperr.NotFound(apperr.MsgCourseNotFound)
	}
	return course, err
}

// Create stores a course owned by owner.
func (s *Service) Create(ctx context.Context, owner identity.User, in Input) (Course, error) {
	if err := validate(in); err != nil {
		return Course{}, err
	}

	now := s.now()
	course, err := s.repo.Create(ctx, Course{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		EstimatedTime:   strings.TrimSpace(in.EstimatedTime),
		MaterialsNeeded: strings.TrimSpace(in.MaterialsNeeded),
		OwnerID:         owner.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Course{}, translate(err)
	}
	s.notify(ctx, notification.KindCourseCreated, course.ID, owner.ID)
	return course, nil
}

// Update replaces the writable fields of a course the actor owns. A course
// that does not exist fails the ownership check, like one owned by someone
// else.
func (s *Service) Update(ctx context.Context, actor identity.User, id int64, in Input) error {
	if err := validate(in); err != nil {
		return err
	}

	course, err := s.authorized(ctx, actor, id)
	if err != nil {
		return err
	}

	course.Title = strings.TrimSpace(in.Title)
	course.Description = strings.TrimSpace(in.Description)
	course.EstimatedTime = strings.TrimSpace(in.EstimatedTime)
	course.MaterialsNeeded = strings.TrimSpace(in.MaterialsNeeded)
	course.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, course); err != nil {
		return translate(err)
	}
	s.notify(ctx, notification.KindCourseUpdated, id, actor.ID)
	return nil
}

// Delete removes a course the actor owns.
func (s *Service) Delete(ctx context.Context, actor identity.User, id int64) error {
	if _, err := s.authorized(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.notify(ctx, notification.KindCourseDeleted, id, actor.ID)
	return nil
}

// notify is best effort; the write has already committed.
func (s *Service) notify(ctx context.Context, kind string, courseID, actorID int64) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{Kind: kind, CourseID: courseID, ActorID: actorID})
}

func (s *Service) authorized(ctx context.Context, actor identity.User, id int64) (Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Course{}, apperr.AccessDenied()
	}
	if err != nil {
		return Course{}, err
	}
	if err := auth.Authorize(actor, course.OwnerID); err != nil {
		return Course{}, err
	}
	return course, nil
}

func validate(in Input) error {
	violations := validation.Required(validation.Fields{
		"title":       in.Title,
		"description": in.Description,
	}, writeRules)
	if len(violations) > 0 {
		return apperr.Invalid(validation.Messages(violations)...)
	}
	return nil
}

// translate maps repository failures after validation onto caller-facing
// kinds. A course deleted between the ownership check and the write reads as
// an ownership failure.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrOwnerMissing):
		return &apperr.Error{Kind: apperr.KindInvalid, Messages: []string{MsgOwnerMissing}, Err: err}
	case errors.Is(err, ErrNotFound):
		return &apperr.Error{Kind: apperr.KindAccessDenied, Messages: []string{apperr.MsgNotOwner}, Err: err}
	default:
		return err
	}
}
