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

// SectionRepository handles database operations for sections
type SectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert creates a new section row. A duplicate generated id surfaces as
// apperrors.ErrSectionIDTaken so the caller can retry with a fresh draw.
func (r *SectionRepository) Insert(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (section_id, title, group_letter, study_plan_id, teacher_id, year, max_capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		section.SectionID, section.Title, section.Group,
		section.StudyPlanID, section.TeacherID, section.Year, section.MaxCapacity,
	).Scan(&section.CreatedAt, &section.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "sections_pkey") {
			return apperrors.ErrSectionIDTaken
		}
		return fmt.Errorf("error inserting section: %w", err)
	}

	return nil
}

// GetByID retrieves a section by its generated id
func (r *SectionRepository) GetByID(ctx context.Context, sectionID string) (*models.Section, error) {
	query := `
		SELECT section_id, title, group_letter, study_plan_id, teacher_id, year, max_capacity, created_at, updated_at
		FROM sections
		WHERE section_id = $1
	`

	var section models.Section
	err := r.db.QueryRow(ctx, query, sectionID).Scan(
		&section.SectionID,
		&section.Title,
		&section.Group,
		&section.StudyPlanID,
		&section.TeacherID,
		&section.Year,
		&section.MaxCapacity,
		&section.CreatedAt,
		&section.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}

	return &section, nil
}

// ExistsID checks if a section id is already taken. Used as the idgen probe.
func (r *SectionRepository) ExistsID(ctx context.Context, sectionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM sections WHERE section_id = $1)`,
		sectionID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking section existence: %w", err)
	}

	return exists, nil
}

// UpdateFields applies a partial patch to a section. The caller has already
// stripped fields the actor may not touch; fields maps column names to new
// values.
func (r *SectionRepository) UpdateFields(ctx context.Context, sectionID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsProvided
	}

	builder := r.sb.Update("sections").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"section_id": sectionID})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build section update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

// Delete removes a section row. Student section_id references are left in
// place; the roster view self-heals because counts are recomputed from the
// students table.
func (r *SectionRepository) Delete(ctx context.Context, sectionID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE section_id = $1`, sectionID)
	if err != nil {
		return fmt.Errorf("error deleting section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

// GetWithCount retrieves a section together with its enrolled count,
// recomputed from the students table.
func (r *SectionRepository) GetWithCount(ctx context.Context, sectionID string) (*models.SectionWithCount, error) {
	query := `
		SELECT s.section_id, s.title, s.group_letter, s.study_plan_id, s.teacher_id,
		       s.year, s.max_capacity, s.created_at, s.updated_at,
		       COUNT(st.student_id) AS enrolled_count
		FROM sections s
		LEFT JOIN students st ON st.section_id = s.section_id
		WHERE s.section_id = $1
		GROUP BY s.section_id
	`

	var sc models.SectionWithCount
	err := r.db.QueryRow(ctx, query, sectionID).Scan(
		&sc.SectionID,
		&sc.Title,
		&sc.Group,
		&sc.StudyPlanID,
		&sc.TeacherID,
		&sc.Year,
		&sc.MaxCapacity,
		&sc.CreatedAt,
		&sc.UpdatedAt,
		&sc.EnrolledCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section with count: %w", err)
	}

	return &sc, nil
}

// ListWithCounts retrieves a page of sections with enrolled counts recomputed
// via aggregation, never from a stored counter.
func (r *SectionRepository) ListWithCounts(ctx context.Context, offset uint64, limit int) ([]*models.SectionWithCount, int64, error) {
	query := `
		SELECT s.section_id, s.title, s.group_letter, s.study_plan_id, s.teacher_id,
		       s.year, s.max_capacity, s.created_at, s.updated_at,
		       COUNT(st.student_id) AS enrolled_count
		FROM sections s
		LEFT JOIN students st ON st.section_id = s.section_id
		GROUP BY s.section_id
		ORDER BY s.section_id
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.SectionWithCount
	for rows.Next() {
		var sc models.SectionWithCount
		if err := rows.Scan(
			&sc.SectionID,
			&sc.Title,
			&sc.Group,
			&sc.StudyPlanID,
			&sc.TeacherID,
			&sc.Year,
			&sc.MaxCapacity,
			&sc.CreatedAt,
			&sc.UpdatedAt,
			&sc.EnrolledCount,
		); err != nil {
			return nil, 0, err
		}
		sections = append(sections, &sc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sections`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting sections: %w", err)
	}

	return sections, total, nil
}
