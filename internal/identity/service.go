package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/validation"
)

// Caller-facing validation messages.
const (
	MsgFirstNameRequired = "A first name is required"
	MsgLastNameRequired  = "A last name is required"
	MsgEmailRequired     = "An email address is required"
	MsgPasswordRequired  = "A password is required"
	MsgEmailInvalid      = "A valid email address is required"
	MsgEmailTaken        = "Email address must be unique"
)

var registerRules = []validation.Rule{
	{Field: "firstName", Message: MsgFirstNameRequired},
	{Field: "lastName", Message: MsgLastNameRequired},
	{Field: "emailAddress", Message: MsgEmailRequired},
	{Field: "password", Message: MsgPasswordRequired},
}

// Service manages identity lifecycle.
type Service struct {
	repo Repository
	cost int
}

// NewService creates a new identity service hashing passwords at the given
// bcrypt cost.
func NewService(repo Repository, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// Register validates the payload, hashes the password once and stores the
// user. Validation and uniqueness failures come back as apperr.KindInvalid.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	fields := validation.Fields{
		"firstName":    in.FirstName,
		"lastName":     in.LastName,
		"emailAddress": in.EmailAddress,
		"password":     in.Password,
	}
	violations := validation.Required(fields, registerRules)
	violations = append(violations, validation.Email("emailAddress", in.EmailAddress, MsgEmailInvalid)...)
	if len(violations) > 0 {
		return User{}, apperr.Invalid(validation.Messages(violations)...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		EmailAddress: NormalizeEmail(in.EmailAddress),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, &apperr.Error{Kind: apperr.KindInvalid, Messages: []string{MsgEmailTaken}, Err: err}
		}
		return User{}, err
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NotFound(apperr.MsgUserNotFound)
	}
	return user, err
}
