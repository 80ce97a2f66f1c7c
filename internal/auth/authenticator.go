package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/course-api/course_api/internal/identity"
)

// Reason says why a request was not authenticated. It is for operator logs
// only; callers always see the same 401.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingHeader
	ReasonUnknownIdentity
	ReasonBadSecret
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMissingHeader:
		return "missing_header"
	case ReasonUnknownIdentity:
		return "unknown_identity"
	case ReasonBadSecret:
		return "bad_secret"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is either Authenticated (Reason == ReasonNone, User set) or
// Rejected with a Reason.
type Outcome struct {
	User   identity.User
	Name   string
	Reason Reason
}

// Authenticated reports whether the outcome carries a verified user.
func (o Outcome) Authenticated() bool { return o.Reason == ReasonNone }

// UserFinder resolves users by their normalized email address.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (identity.User, error)
}

// Authenticator verifies Basic credentials against stored password hashes.
type Authenticator struct {
	users UserFinder
	// compared against when the user does not exist so unknown accounts
	// cost the same as wrong passwords
	dummyHash []byte
}

// NewAuthenticator builds an Authenticator. cost should match the bcrypt cost
// used at registration.
func NewAuthenticator(users UserFinder, cost int) (*Authenticator, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("course-api-timing-equalizer"), cost)
	if err != nil {
		return nil, fmt.Errorf("build dummy hash: %w", err)
	}
	return &Authenticator{users: users, dummyHash: dummy}, nil
}

// Authenticate parses the Authorization header value and verifies it. A
// non-nil error means the identity store failed; rejections are reported in
// the Outcome.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Outcome, error) {
	cred, ok := ParseBasic(header)
	if !ok {
		return Outcome{Reason: ReasonMissingHeader}, nil
	}
	return a.Verify(ctx, cred)
}

// Verify checks a parsed credential.
func (a *Authenticator) Verify(ctx context.Context, cred Credential) (Outcome, error) {
	email := identity.NormalizeEmail(cred.Name)

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, identity.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(cred.Secret))
		return Outcome{Name: email, Reason: ReasonUnknownIdentity}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(cred.Secret)); err != nil {
		return Outcome{Name: email, Reason: ReasonBadSecret}, nil
	}

	return Outcome{User: user, Name: email}, nil
}
