package course

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/course-api/course_api/internal/infra"
)

// Repository persists courses.
type Repository interface {
	Create(ctx context.Context, course Course) (Course, error)
	FindByID(ctx context.Context, id int64) (Course, error)
	FindAll(ctx context.Context, filter Filter) ([]Course, error)
	Update(ctx context.Context, course Course) error
	Delete(ctx context.Context, id int64) error
}

const selectCourses = `SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed, c.user_id,
        c.created_at, c.updated_at, u.id, u.first_name, u.last_name, u.email_address
    FROM courses c
    INNER JOIN users u ON u.id = c.user_id`

// PostgresRepository stores courses in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a course record.
func (r *PostgresRepository) Create(ctx context.Context, course Course) (Course, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO courses (title, description, estimated_time, materials_needed, user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.OwnerID,
		course.CreatedAt.UTC(), course.UpdatedAt.UTC(),
	).Scan(&course.ID)
	if err != nil {
		return Course{}, mapWriteError("insert course", err)
	}
	return course, nil
}

// FindByID fetches a course and its owner.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, selectCourses+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	if err != nil {
		return Course{}, fmt.Errorf("find course %d: %w", id, err)
	}
	return course, nil
}

// FindAll lists courses in id order.
func (r *PostgresRepository) FindAll(ctx context.Context, filter Filter) ([]Course, error) {
	query, args := buildFindAll(filter, func(n int) string { return "$" + strconv.Itoa(n) })
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Update rewrites the mutable fields of a course.
func (r *PostgresRepository) Update(ctx context.Context, course Course) error {
	cmd, err := r.db.Exec(ctx, `UPDATE courses
        SET title = $1, description = $2, estimated_time = $3, materials_needed = $4, updated_at = $5
        WHERE id = $6`,
		course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.UpdatedAt.UTC(), course.ID)
	if err != nil {
		return mapWriteError("update course", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a course.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.EstimatedTime, &c.MaterialsNeeded, &c.OwnerID,
		&c.CreatedAt, &c.UpdatedAt, &c.Owner.ID, &c.Owner.FirstName, &c.Owner.LastName, &c.Owner.EmailAddress)
	if err != nil {
		return Course{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// buildFindAll renders the list query; placeholder formats the n-th bind
// parameter for the target dialect.
func buildFindAll(filter Filter, placeholder func(n int) string) (string, []any) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(selectCourses)
	if filter.OwnerID != 0 {
		args = append(args, filter.OwnerID)
		query.WriteString(" WHERE c.user_id = " + placeholder(len(args)))
	}
	query.WriteString(" ORDER BY c.id")
	return query.String(), args
}

func mapWriteError(op string, err error) error {
	if c, ok := infra.ClassifyConstraint(err); ok && c.Kind == infra.ConstraintForeignKey {
		return fmt.Errorf("%w: %s", ErrOwnerMissing, c.Name)
	}
	return fmt.Errorf("%s: %w", op, err)
}
