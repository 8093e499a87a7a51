package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when the
// (student_id, quiz_id, attempt_number) index rejects a duplicate.
const uniqueViolation = "23505"

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create appends a finalized submission. Submissions are never updated;
// a duplicate attempt number for the same (student, quiz) pair is
// rejected as a conflict.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = uuid.New().String()
	submission.CreatedAt = time.Now()

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to marshal answers", err)
	}

	query := `
		INSERT INTO submissions (id, student_id, quiz_id, attempt_number, answers, score, total_possible, percentage, passed, time_started, time_completed, duration_sec, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		submission.ID,
		submission.StudentID,
		submission.QuizID,
		submission.AttemptNumber,
		answersJSON,
		submission.Score,
		submission.TotalPossible,
		submission.Percentage,
		submission.Passed,
		submission.TimeStarted,
		submission.TimeCompleted,
		submission.DurationSec,
		submission.Status,
		submission.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.Newf(apperrors.KindConflict,
				"submission already exists for student %s, quiz %s, attempt %d",
				submission.StudentID, submission.QuizID, submission.AttemptNumber)
		}
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to insert submission", err)
	}

	return nil
}

const submissionColumns = `id, student_id, quiz_id, attempt_number, answers, score, total_possible, percentage, passed, time_started, time_completed, duration_sec, status, created_at`

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	submission, err := r.scanSubmission(r.db.QueryRowContext(ctx, query, submissionID))
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.KindNotFound, "submission %s not found", submissionID)
	}
	return submission, err
}

// FindBest returns the student's highest-percentage submission for a
// quiz, or nil when the student has never submitted.
func (r *SubmissionRepository) FindBest(ctx context.Context, studentID, quizID string) (*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE student_id = $1 AND quiz_id = $2
		ORDER BY percentage DESC, created_at ASC
		LIMIT 1
	`
	submission, err := r.scanSubmission(r.db.QueryRowContext(ctx, query, studentID, quizID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return submission, err
}

func (r *SubmissionRepository) CountForQuiz(ctx context.Context, quizID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM submissions WHERE quiz_id = $1`
	if err := r.db.QueryRowContext(ctx, query, quizID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to count submissions", err)
	}
	return count, nil
}

func (r *SubmissionRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to count submissions", err)
	}
	return count, nil
}

// CountAttempts returns how many attempts the student has already
// submitted for the quiz.
func (r *SubmissionRepository) CountAttempts(ctx context.Context, studentID, quizID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM submissions WHERE student_id = $1 AND quiz_id = $2`
	if err := r.db.QueryRowContext(ctx, query, studentID, quizID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to count attempts", err)
	}
	return count, nil
}

func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE student_id = $1
		ORDER BY created_at DESC
	`
	return r.querySubmissions(ctx, query, studentID)
}

func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID string) ([]*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE quiz_id = $1
		ORDER BY created_at DESC
	`
	return r.querySubmissions(ctx, query, quizID)
}

// AverageFilter narrows the aggregate to one quiz, one student, or
// both. Zero values mean "all".
type AverageFilter struct {
	QuizID    string
	StudentID string
}

// AggregateAverage returns the mean percentage across submissions
// matching the filter, and 0 when nothing matches.
func (r *SubmissionRepository) AggregateAverage(ctx context.Context, filter AverageFilter) (float64, error) {
	query := `SELECT COALESCE(AVG(percentage), 0) FROM submissions WHERE 1=1`
	args := []any{}

	if filter.QuizID != "" {
		args = append(args, filter.QuizID)
		query += ` AND quiz_id = $1`
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		if len(args) == 1 {
			query += ` AND student_id = $1`
		} else {
			query += ` AND student_id = $2`
		}
	}

	var average float64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&average); err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to aggregate average", err)
	}
	return average, nil
}

// PassRate returns the fraction of passing submissions for a quiz,
// 0 when the quiz has no submissions.
func (r *SubmissionRepository) PassRate(ctx context.Context, quizID string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(CASE WHEN passed THEN 1.0 ELSE 0.0 END), 0)
		FROM submissions
		WHERE quiz_id = $1
	`
	var rate float64
	if err := r.db.QueryRowContext(ctx, query, quizID).Scan(&rate); err != nil {
		return 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to compute pass rate", err)
	}
	return rate, nil
}

// MostPopularQuiz returns the quiz id with the most submissions and its
// submission count. Empty id when there are no submissions at all.
func (r *SubmissionRepository) MostPopularQuiz(ctx context.Context) (string, int, error) {
	query := `
		SELECT quiz_id, COUNT(*) AS total
		FROM submissions
		GROUP BY quiz_id
		ORDER BY total DESC, quiz_id ASC
		LIMIT 1
	`
	var quizID string
	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&quizID, &count)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to find most popular quiz", err)
	}
	return quizID, count, nil
}

// DeleteByQuiz removes all submissions for a quiz. Only used by the
// administrative cascade when the parent quiz is deleted.
func (r *SubmissionRepository) DeleteByQuiz(ctx context.Context, quizID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE quiz_id = $1`, quizID); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to delete submissions", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SubmissionRepository) scanSubmission(row rowScanner) (*models.Submission, error) {
	submission := &models.Submission{}
	var answersJSON []byte

	err := row.Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.QuizID,
		&submission.AttemptNumber,
		&answersJSON,
		&submission.Score,
		&submission.TotalPossible,
		&submission.Percentage,
		&submission.Passed,
		&submission.TimeStarted,
		&submission.TimeCompleted,
		&submission.DurationSec,
		&submission.Status,
		&submission.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan submission", err)
	}

	if err := json.Unmarshal(answersJSON, &submission.Answers); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to unmarshal answers", err)
	}

	return submission, nil
}

func (r *SubmissionRepository) querySubmissions(ctx context.Context, query string, args ...any) ([]*models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to list submissions", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission, err := r.scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read submissions", err)
	}
	return submissions, nil
}
