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

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert creates a new teacher row
func (r *TeacherRepository) Insert(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (teacher_id, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		teacher.TeacherID, teacher.FirstName, teacher.LastName, teacher.Email, teacher.Phone,
	).Scan(&teacher.CreatedAt, &teacher.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_pkey") {
			return apperrors.ErrTeacherIDTaken
		}
		if dberrors.IsDuplicateConstraintError(err, "teachers_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error inserting teacher: %w", err)
	}

	return nil
}

// GetByID retrieves a teacher by id
func (r *TeacherRepository) GetByID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	query := `
		SELECT teacher_id, first_name, last_name, email, phone, created_at, updated_at
		FROM teachers
		WHERE teacher_id = $1
	`

	var teacher models.Teacher
	err := r.db.QueryRow(ctx, query, teacherID).Scan(
		&teacher.TeacherID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Email,
		&teacher.Phone,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return &teacher, nil
}

// ExistsID checks if a teacher id is already taken. Used as the idgen probe.
func (r *TeacherRepository) ExistsID(ctx context.Context, teacherID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM teachers WHERE teacher_id = $1)`,
		teacherID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking teacher existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves all teachers
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	query := `
		SELECT teacher_id, first_name, last_name, email, phone, created_at, updated_at
		FROM teachers
		ORDER BY teacher_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		var teacher models.Teacher
		if err := rows.Scan(
			&teacher.TeacherID,
			&teacher.FirstName,
			&teacher.LastName,
			&teacher.Email,
			&teacher.Phone,
			&teacher.CreatedAt,
			&teacher.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teachers, nil
}

// UpdateFields applies a partial patch to a teacher.
func (r *TeacherRepository) UpdateFields(ctx context.Context, teacherID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsProvided
	}

	builder := r.sb.Update("teachers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"teacher_id": teacherID})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build teacher update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}

// Delete removes a teacher row
func (r *TeacherRepository) Delete(ctx context.Context, teacherID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return fmt.Errorf("error deleting teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}
