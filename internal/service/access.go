package service

import (
	"context"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"
)

// QuizCatalog is the read-only quiz lookup the validator runs against.
type QuizCatalog interface {
	GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error)
}

type AttemptCounter interface {
	CountAttempts(ctx context.Context, studentID, quizID string) (int, error)
}

// AccessValidator decides whether an actor may see or attempt a quiz.
// It has no side effects and runs before any session or grading
// operation.
type AccessValidator struct {
	catalog QuizCatalog
}

func NewAccessValidator(catalog QuizCatalog) *AccessValidator {
	return &AccessValidator{catalog: catalog}
}

// CheckAccess returns the quiz when the actor may view or attempt it.
// Admins see everything; students need the quiz active and themselves
// on its assignment list.
func (v *AccessValidator) CheckAccess(ctx context.Context, quizID string, actor models.Actor) (*models.Quiz, error) {
	quiz, err := v.catalog.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if actor.Role == constants.RoleAdmin {
		return quiz, nil
	}

	if !quiz.IsActive {
		return nil, apperrors.Newf(apperrors.KindForbidden, "quiz %s is not active", quizID)
	}

	for _, studentID := range quiz.AssignedStudents {
		if studentID == actor.ID {
			return quiz, nil
		}
	}

	return nil, apperrors.Newf(apperrors.KindForbidden, "student %s is not assigned to quiz %s", actor.ID, quizID)
}

// CheckAttemptLimit rejects an attempt number that is out of sequence
// or beyond the quiz's cap.
func (v *AccessValidator) CheckAttemptLimit(ctx context.Context, quiz *models.Quiz, actor models.Actor, attemptNumber int, counter AttemptCounter) error {
	if attemptNumber < 1 {
		return apperrors.New(apperrors.KindForbidden, "attempt number must be at least 1")
	}
	if quiz.MaxAttempts > 0 && attemptNumber > quiz.MaxAttempts {
		return apperrors.Newf(apperrors.KindForbidden,
			"attempt %d exceeds the limit of %d", attemptNumber, quiz.MaxAttempts)
	}

	used, err := counter.CountAttempts(ctx, actor.ID, quiz.ID)
	if err != nil {
		return err
	}
	if quiz.MaxAttempts > 0 && used >= quiz.MaxAttempts {
		return apperrors.Newf(apperrors.KindForbidden,
			"student %s has used all %d attempts for quiz %s", actor.ID, quiz.MaxAttempts, quiz.ID)
	}

	return nil
}
