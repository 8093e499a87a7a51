package repository

import (
	"context"
	"database/sql"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"

	"github.com/google/uuid"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.ActivityLog) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activity_logs (id, action, description, performed_by, target_user, target_quiz, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		activity.ID,
		activity.Action,
		activity.Description,
		activity.PerformedBy,
		nullString(activity.TargetUser),
		nullString(activity.TargetQuiz),
		activity.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to create activity log", err)
	}
	return nil
}

func (r *ActivityRepository) GetRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	query := `
		SELECT id, action, description, performed_by, target_user, target_quiz, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to get activity logs", err)
	}
	defer rows.Close()

	var activities []*models.ActivityLog
	for rows.Next() {
		activity := &models.ActivityLog{}
		var targetUser, targetQuiz sql.NullString
		err := rows.Scan(
			&activity.ID,
			&activity.Action,
			&activity.Description,
			&activity.PerformedBy,
			&targetUser,
			&targetQuiz,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan activity log", err)
		}
		activity.TargetUser = targetUser.String
		activity.TargetQuiz = targetQuiz.String
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
