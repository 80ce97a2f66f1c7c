package auth

import (
	"github.com/course-api/course_api/internal/apperr"
	"github.com/course-api/course_api/internal/identity"
)

// Authorize permits a mutation only when user owns the resource.
func Authorize(user identity.User, ownerID int64) error {
	if user.ID == 0 || user.ID != ownerID {
		return apperr.AccessDenied()
	}
	return nil
}
