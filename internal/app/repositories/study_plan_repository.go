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

// StudyPlanRepository handles database operations for study plans
type StudyPlanRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudyPlanRepository creates a new study plan repository
func NewStudyPlanRepository(db *pgxpool.Pool) *StudyPlanRepository {
	return &StudyPlanRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert creates a new study plan row in DRAFT at version 1
func (r *StudyPlanRepository) Insert(ctx context.Context, plan *models.StudyPlan) error {
	query := `
		INSERT INTO study_plans (study_plan_id, name, level, status, version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		plan.StudyPlanID, plan.Name, plan.Level, plan.Status, plan.Version,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "study_plans_pkey") {
			return apperrors.ErrStudyPlanIDTaken
		}
		return fmt.Errorf("error inserting study plan: %w", err)
	}

	return nil
}

// GetByID retrieves a study plan by id
func (r *StudyPlanRepository) GetByID(ctx context.Context, planID string) (*models.StudyPlan, error) {
	query := `
		SELECT study_plan_id, name, level, status, version, created_at, updated_at
		FROM study_plans
		WHERE study_plan_id = $1
	`

	var plan models.StudyPlan
	err := r.db.QueryRow(ctx, query, planID).Scan(
		&plan.StudyPlanID,
		&plan.Name,
		&plan.Level,
		&plan.Status,
		&plan.Version,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudyPlanNotFound
		}
		return nil, fmt.Errorf("error retrieving study plan: %w", err)
	}

	return &plan, nil
}

// ExistsID checks if a study plan id is already taken. Used as the idgen probe.
func (r *StudyPlanRepository) ExistsID(ctx context.Context, planID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM study_plans WHERE study_plan_id = $1)`,
		planID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking study plan existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves all study plans
func (r *StudyPlanRepository) GetAll(ctx context.Context) ([]*models.StudyPlan, error) {
	query := `
		SELECT study_plan_id, name, level, status, version, created_at, updated_at
		FROM study_plans
		ORDER BY study_plan_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing study plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.StudyPlan
	for rows.Next() {
		var plan models.StudyPlan
		if err := rows.Scan(
			&plan.StudyPlanID,
			&plan.Name,
			&plan.Level,
			&plan.Status,
			&plan.Version,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// UpdateFieldsVersioned applies a partial patch atomically guarded by the
// optimistic version counter: the update only lands if the stored version
// still matches expectedVersion, and bumps it by one.
func (r *StudyPlanRepository) UpdateFieldsVersioned(ctx context.Context, planID string, expectedVersion int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsProvided
	}

	builder := r.sb.Update("study_plans").
		Set("version", expectedVersion+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"study_plan_id": planID, "version": expectedVersion})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build study plan update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating study plan: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the plan is gone or someone bumped the version first.
		exists, existsErr := r.ExistsID(ctx, planID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperrors.ErrStudyPlanNotFound
		}
		return apperrors.ErrStaleStudyPlan
	}

	return nil
}

// UpdateStatus moves a plan between lifecycle states with a single
// conditional update that re-checks the current status at write time.
func (r *StudyPlanRepository) UpdateStatus(ctx context.Context, planID string, from, to models.StudyPlanStatus) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE study_plans
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE study_plan_id = $2 AND status = $3`,
		to, planID, from)
	if err != nil {
		return fmt.Errorf("error updating study plan status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		exists, existsErr := r.ExistsID(ctx, planID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return apperrors.ErrStudyPlanNotFound
		}
		return apperrors.ErrInvalidStatusChange
	}

	return nil
}

// Delete removes a study plan row
func (r *StudyPlanRepository) Delete(ctx context.Context, planID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM study_plans WHERE study_plan_id = $1`, planID)
	if err != nil {
		return fmt.Errorf("error deleting study plan: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudyPlanNotFound
	}

	return nil
}
