package course

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/course-api/course_api/internal/identity"
)

// OwnerLookup resolves owners for the in-memory store's joins.
type OwnerLookup interface {
	FindByID(ctx context.Context, id int64) (identity.User, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	storage map[int64]Course
	owners  OwnerLookup
}

// NewMemoryRepository constructs an in-memory repository that resolves
// owners through users, mirroring the SQL stores' foreign key.
func NewMemoryRepository(users OwnerLookup) Repository {
	return &memoryRepository{storage: make(map[int64]Course), owners: users}
}

func (r *memoryRepository) Create(ctx context.Context, course Course) (Course, error) {
	if _, err := r.owner(ctx, course.OwnerID); err != nil {
		return Course{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	course.ID = r.nextID
	course.Owner = Owner{}
	r.storage[course.ID] = course
	return course, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (Course, error) {
	r.mu.RLock()
	course, ok := r.storage[id]
	r.mu.RUnlock()
	if !ok {
		return Course{}, ErrNotFound
	}
	return r.withOwner(ctx, course)
}

func (r *memoryRepository) FindAll(ctx context.Context, filter Filter) ([]Course, error) {
	r.mu.RLock()
	matched := make([]Course, 0, len(r.storage))
	for _, course := range r.storage {
		if filter.OwnerID != 0 && course.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, course)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	for i := range matched {
		course, err := r.withOwner(ctx, matched[i])
		if err != nil {
			return nil, err
		}
		matched[i] = course
	}
	return matched, nil
}

func (r *memoryRepository) Update(_ context.Context, course Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.storage[course.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = course.Title
	stored.Description = course.Description
	stored.EstimatedTime = course.EstimatedTime
	stored.MaterialsNeeded = course.MaterialsNeeded
	stored.UpdatedAt = course.UpdatedAt
	r.storage[course.ID] = stored
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) owner(ctx context.Context, id int64) (Owner, error) {
	user, err := r.owners.FindByID(ctx, id)
	if errors.Is(err, identity.ErrNotFound) {
		return Owner{}, ErrOwnerMissing
	}
	if err != nil {
		return Owner{}, err
	}
	return Owner{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, EmailAddress: user.EmailAddress}, nil
}

func (r *memoryRepository) withOwner(ctx context.Context, course Course) (Course, error) {
	owner, err := r.owner(ctx, course.OwnerID)
	if err != nil {
		return Course{}, err
	}
	course.Owner = owner
	return course, nil
}
