package course

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by repositories when no course matches.
	ErrNotFound = errors.New("course not found")
	// ErrOwnerMissing is returned when the owner reference does not resolve.
	ErrOwnerMissing = errors.New("course owner does not exist")
)

// Course is an owned, mutable record. Owner is populated on reads.
type Course struct {
	ID              int64
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
	OwnerID         int64
	Owner           Owner
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Owner is the public projection of the owning user.
type Owner struct {
	ID           int64
	FirstName    string
	LastName     string
	EmailAddress string
}

// Filter narrows FindAll. Zero values match everything.
type Filter struct {
	OwnerID int64
}

// Input carries the writable course fields.
type Input struct {
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
}
