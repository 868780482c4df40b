package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
	"github.com/lmoreno/schooldesk/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert creates a new student row
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, section_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.StudentID, student.FirstName, student.LastName, student.SectionID,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_pkey") {
			return apperrors.ErrStudentIDTaken
		}
		return fmt.Errorf("error inserting student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `
		SELECT student_id, first_name, last_name, section_id, created_at, updated_at
		FROM students
		WHERE student_id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&student.StudentID,
		&student.FirstName,
		&student.LastName,
		&student.SectionID,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// ExistsID checks if a student id is already taken. Used as the idgen probe.
func (r *StudentRepository) ExistsID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`,
		studentID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}

	return exists, nil
}

// FindMissing returns the ids from studentIDs with no matching student row.
func (r *StudentRepository) FindMissing(ctx context.Context, studentIDs []string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT student_id FROM students WHERE student_id = ANY($1)`,
		studentIDs)
	if err != nil {
		return nil, fmt.Errorf("error checking student ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(studentIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range studentIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CountBySection counts the students currently enrolled in a section. This is
// the source of truth for the section's enrolled count.
func (r *StudentRepository) CountBySection(ctx context.Context, sectionID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM students WHERE section_id = $1`,
		sectionID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("error counting section roster: %w", err)
	}

	return count, nil
}

// ListRoster returns the ids of all students enrolled in a section.
func (r *StudentRepository) ListRoster(ctx context.Context, sectionID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT student_id FROM students WHERE section_id = $1 ORDER BY student_id`,
		sectionID)
	if err != nil {
		return nil, fmt.Errorf("error listing section roster: %w", err)
	}
	defer rows.Close()

	var roster []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roster = append(roster, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}

// AssignSection points a student's section reference at the given section.
func (r *StudentRepository) AssignSection(ctx context.Context, studentID, sectionID string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE students SET section_id = $1, updated_at = NOW() WHERE student_id = $2`,
		sectionID, studentID)
	if err != nil {
		return fmt.Errorf("error assigning student to section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ClearSection removes a student's section reference unconditionally.
func (r *StudentRepository) ClearSection(ctx context.Context, studentID string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE students SET section_id = NULL, updated_at = NOW() WHERE student_id = $1`,
		studentID)
	if err != nil {
		return fmt.Errorf("error clearing student section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateFields applies a partial patch to a student. Enrollment endpoints own
// the section_id column; it is never patched here.
func (r *StudentRepository) UpdateFields(ctx context.Context, studentID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsProvided
	}

	builder := r.sb.Update("students").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": studentID})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student row
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// List retrieves a page of students, optionally filtered by section.
func (r *StudentRepository) List(ctx context.Context, sectionID *string, offset uint64, limit int) ([]*models.Student, int64, error) {
	listBuilder := r.sb.Select("student_id", "first_name", "last_name", "section_id", "created_at", "updated_at").
		From("students").
		OrderBy("student_id").
		Offset(offset).
		Limit(uint64(limit))
	countBuilder := r.sb.Select("COUNT(*)").From("students")

	if sectionID != nil {
		listBuilder = listBuilder.Where(squirrel.Eq{"section_id": *sectionID})
		countBuilder = countBuilder.Where(squirrel.Eq{"section_id": *sectionID})
	}

	sql, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.StudentID,
			&student.FirstName,
			&student.LastName,
			&student.SectionID,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	sql, args, err = countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	return students, total, nil
}
