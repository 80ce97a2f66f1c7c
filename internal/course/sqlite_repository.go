package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteRepository implements Repository on a database/sql SQLite handle.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository builds a SQLite-backed course repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, course Course) (Course, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO courses (title, description, estimated_time, materials_needed, user_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.OwnerID,
		course.CreatedAt.UTC(), course.UpdatedAt.UTC())
	if err != nil {
		return Course{}, mapWriteError("insert course", err)
	}
	if course.ID, err = res.LastInsertId(); err != nil {
		return Course{}, fmt.Errorf("read course id: %w", err)
	}
	return course, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (Course, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx, selectCourses+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	if err != nil {
		return Course{}, fmt.Errorf("find course %d: %w", id, err)
	}
	return course, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, filter Filter) ([]Course, error) {
	query, args := buildFindAll(filter, func(int) string { return "?" })
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *SQLiteRepository) Update(ctx context.Context, course Course) error {
	res, err := r.db.ExecContext(ctx, `UPDATE courses
        SET title = ?, description = ?, estimated_time = ?, materials_needed = ?, updated_at = ?
        WHERE id = ?`,
		course.Title, course.Description, course.EstimatedTime, course.MaterialsNeeded, course.UpdatedAt.UTC(), course.ID)
	if err != nil {
		return mapWriteError("update course", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
