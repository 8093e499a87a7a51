package service

import (
	"context"
	"testing"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	quizzes map[string]*models.Quiz
}

func (f *fakeCatalog) GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindNotFound, "quiz %s not found", quizID)
	}
	return quiz, nil
}

type fakeCounter struct {
	counts map[string]int
}

func (f *fakeCounter) CountAttempts(ctx context.Context, studentID, quizID string) (int, error) {
	return f.counts[studentID+"/"+quizID], nil
}

func accessFixture() (*AccessValidator, *models.Quiz) {
	quiz := &models.Quiz{
		ID:               "quiz-1",
		Title:            "Basics",
		IsActive:         true,
		MaxAttempts:      2,
		AssignedStudents: []string{"student-1"},
		Questions: []models.Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 1},
		},
	}
	catalog := &fakeCatalog{quizzes: map[string]*models.Quiz{"quiz-1": quiz}}
	return NewAccessValidator(catalog), quiz
}

func TestCheckAccessUnknownQuiz(t *testing.T) {
	validator, _ := accessFixture()

	_, err := validator.CheckAccess(context.Background(), "missing", models.Actor{ID: "student-1", Role: constants.RoleStudent})
	require.Error(t, err)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCheckAccessAdminSeesEverything(t *testing.T) {
	validator, quiz := accessFixture()
	quiz.IsActive = false

	got, err := validator.CheckAccess(context.Background(), "quiz-1", models.Actor{ID: "admin-1", Role: constants.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, quiz, got)
}

func TestCheckAccessAssignedStudent(t *testing.T) {
	validator, quiz := accessFixture()

	got, err := validator.CheckAccess(context.Background(), "quiz-1", models.Actor{ID: "student-1", Role: constants.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, quiz, got)
}

func TestCheckAccessInactiveQuizForbidden(t *testing.T) {
	validator, quiz := accessFixture()
	quiz.IsActive = false

	_, err := validator.CheckAccess(context.Background(), "quiz-1", models.Actor{ID: "student-1", Role: constants.RoleStudent})
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCheckAccessUnassignedStudentForbidden(t *testing.T) {
	validator, _ := accessFixture()

	_, err := validator.CheckAccess(context.Background(), "quiz-1", models.Actor{ID: "student-2", Role: constants.RoleStudent})
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCheckAttemptLimit(t *testing.T) {
	validator, quiz := accessFixture()
	actor := models.Actor{ID: "student-1", Role: constants.RoleStudent}
	counter := &fakeCounter{counts: map[string]int{}}

	require.NoError(t, validator.CheckAttemptLimit(context.Background(), quiz, actor, 1, counter))

	err := validator.CheckAttemptLimit(context.Background(), quiz, actor, 0, counter)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = validator.CheckAttemptLimit(context.Background(), quiz, actor, 3, counter)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	counter.counts["student-1/quiz-1"] = 2
	err = validator.CheckAttemptLimit(context.Background(), quiz, actor, 2, counter)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCheckAttemptLimitUnlimited(t *testing.T) {
	validator, quiz := accessFixture()
	quiz.MaxAttempts = 0
	actor := models.Actor{ID: "student-1", Role: constants.RoleStudent}
	counter := &fakeCounter{counts: map[string]int{"student-1/quiz-1": 50}}

	require.NoError(t, validator.CheckAttemptLimit(context.Background(), quiz, actor, 51, counter))
}
