package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"

	"github.com/google/uuid"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = uuid.New().String()
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = quiz.CreatedAt

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO quizzes (id, title, created_by, is_active, passing_score, max_attempts, time_limit_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, query,
		quiz.ID,
		quiz.Title,
		quiz.CreatedBy,
		quiz.IsActive,
		quiz.PassingScore,
		quiz.MaxAttempts,
		quiz.TimeLimitMin,
		quiz.CreatedAt,
		quiz.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to insert quiz", err)
	}

	if err := insertQuestions(ctx, tx, quiz); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to commit quiz", err)
	}
	return nil
}

// UpdateQuiz replaces the quiz row and its question set in one
// transaction. Callers decide whether content changes are allowed; the
// repository only persists.
func (r *QuizRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	quiz.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE quizzes
		SET title = $1, is_active = $2, passing_score = $3, max_attempts = $4, time_limit_min = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := tx.ExecContext(ctx, query,
		quiz.Title,
		quiz.IsActive,
		quiz.PassingScore,
		quiz.MaxAttempts,
		quiz.TimeLimitMin,
		quiz.UpdatedAt,
		quiz.ID,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to update quiz", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read update result", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "quiz %s not found", quiz.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quiz.ID); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to delete old questions", err)
	}

	if err := insertQuestions(ctx, tx, quiz); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to commit quiz update", err)
	}
	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, quiz *models.Quiz) error {
	query := `
		INSERT INTO quiz_questions (id, quiz_id, text, options, correct_answer, points, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		q.OrderIndex = i

		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to marshal options", err)
		}

		if _, err := tx.ExecContext(ctx, query, q.ID, quiz.ID, q.Text, optionsJSON, q.CorrectAnswer, q.Points, q.OrderIndex); err != nil {
			return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to insert question", err)
		}
	}
	return nil
}

// GetQuizByID loads a quiz together with its ordered questions and
// assigned students.
func (r *QuizRepository) GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	query := `
		SELECT id, title, created_by, is_active, passing_score, max_attempts, time_limit_min, created_at, updated_at
		FROM quizzes
		WHERE id = $1
	`
	quiz := &models.Quiz{}
	err := r.db.QueryRowContext(ctx, query, quizID).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.CreatedBy,
		&quiz.IsActive,
		&quiz.PassingScore,
		&quiz.MaxAttempts,
		&quiz.TimeLimitMin,
		&quiz.CreatedAt,
		&quiz.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.KindNotFound, "quiz %s not found", quizID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to get quiz", err)
	}

	quiz.Questions, err = r.getQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	quiz.AssignedStudents, err = r.getAssignedStudents(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return quiz, nil
}

func (r *QuizRepository) getQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	query := `
		SELECT id, text, options, correct_answer, points, order_index
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY order_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to get questions", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.Text, &optionsJSON, &q.CorrectAnswer, &q.Points, &q.OrderIndex); err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan question", err)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to unmarshal options", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read questions", err)
	}
	return questions, nil
}

func (r *QuizRepository) getAssignedStudents(ctx context.Context, quizID string) ([]string, error) {
	query := `SELECT student_id FROM quiz_assignments WHERE quiz_id = $1 ORDER BY assigned_at ASC`
	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to get assignments", err)
	}
	defer rows.Close()

	var students []string
	for rows.Next() {
		var studentID string
		if err := rows.Scan(&studentID); err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan assignment", err)
		}
		students = append(students, studentID)
	}
	return students, rows.Err()
}

func (r *QuizRepository) GetQuizzesByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	query := `
		SELECT id, title, created_by, is_active, passing_score, max_attempts, time_limit_min, created_at, updated_at
		FROM quizzes
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	return r.queryQuizzes(ctx, query, creatorID)
}

// GetQuizzesForStudent returns active quizzes assigned to the student.
func (r *QuizRepository) GetQuizzesForStudent(ctx context.Context, studentID string) ([]*models.Quiz, error) {
	query := `
		SELECT q.id, q.title, q.created_by, q.is_active, q.passing_score, q.max_attempts, q.time_limit_min, q.created_at, q.updated_at
		FROM quizzes q
		JOIN quiz_assignments a ON a.quiz_id = q.id
		WHERE a.student_id = $1 AND q.is_active = TRUE
		ORDER BY q.created_at DESC
	`
	return r.queryQuizzes(ctx, query, studentID)
}

func (r *QuizRepository) queryQuizzes(ctx context.Context, query string, args ...any) ([]*models.Quiz, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to list quizzes", err)
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz := &models.Quiz{}
		err := rows.Scan(
			&quiz.ID,
			&quiz.Title,
			&quiz.CreatedBy,
			&quiz.IsActive,
			&quiz.PassingScore,
			&quiz.MaxAttempts,
			&quiz.TimeLimitMin,
			&quiz.CreatedAt,
			&quiz.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan quiz", err)
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read quizzes", err)
	}

	for _, quiz := range quizzes {
		quiz.Questions, err = r.getQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		quiz.AssignedStudents, err = r.getAssignedStudents(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
	}

	return quizzes, nil
}

func (r *QuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to delete quiz", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read delete result", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "quiz %s not found", quizID)
	}
	return nil
}

func (r *QuizRepository) AssignStudents(ctx context.Context, quizID string, studentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO quiz_assignments (quiz_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (quiz_id, student_id) DO NOTHING
	`
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, query, quizID, studentID); err != nil {
			return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to insert assignment", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to commit assignments", err)
	}
	return nil
}

func (r *QuizRepository) HasSubmissions(ctx context.Context, quizID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM submissions WHERE quiz_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, quizID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to check submissions", err)
	}
	return exists, nil
}
