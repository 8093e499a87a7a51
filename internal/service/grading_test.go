package service

import (
	"testing"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"

	"github.com/stretchr/testify/require"
)

func twoQuestionQuiz(passingScore int) *models.Quiz {
	return &models.Quiz{
		ID:           "quiz-1",
		Title:        "Basics",
		PassingScore: passingScore,
		Questions: []models.Question{
			{ID: "q1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Points: 1},
			{ID: "q2", Text: "3+3?", Options: []string{"6", "7"}, CorrectAnswer: 0, Points: 1},
		},
	}
}

func gradeTimes() (time.Time, time.Time) {
	started := time.Now().Add(-10 * time.Minute)
	return started, started.Add(5 * time.Minute)
}

func TestGradeOneCorrectOneWrong(t *testing.T) {
	quiz := twoQuestionQuiz(50)
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{1, 1}, started, completed)
	require.NoError(t, err)

	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.TotalPossible)
	require.Equal(t, 50, result.Percentage)
	require.True(t, result.Passed)
	require.Equal(t, 1, result.CorrectCount)
	require.Equal(t, 1, result.IncorrectCount)
	require.Equal(t, 0, result.UnansweredCount)
	require.Equal(t, 300, result.DurationSec)
}

func TestGradeAllUnanswered(t *testing.T) {
	quiz := twoQuestionQuiz(50)
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{-1, -1}, started, completed)
	require.NoError(t, err)

	require.Equal(t, 0, result.Score)
	require.Equal(t, 0, result.Percentage)
	require.False(t, result.Passed)
	require.Equal(t, 2, result.UnansweredCount)
	require.Equal(t, 0, result.IncorrectCount)

	for _, record := range result.Answers {
		require.False(t, record.IsCorrect)
		require.Equal(t, -1, record.SelectedOption)
		require.Equal(t, 0, record.PointsEarned)
	}
}

func TestGradeAllCorrectIsFullMarks(t *testing.T) {
	quiz := twoQuestionQuiz(100)
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{1, 0}, started, completed)
	require.NoError(t, err)

	require.Equal(t, 100, result.Percentage)
	require.True(t, result.Passed)
	require.Equal(t, 2, result.CorrectCount)
}

func TestGradeZeroPassingScorePassesEmptyAttempt(t *testing.T) {
	quiz := twoQuestionQuiz(0)
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{-1, -1}, started, completed)
	require.NoError(t, err)
	require.True(t, result.Passed)
}

func TestGradeTotalPossibleIndependentOfAnswers(t *testing.T) {
	quiz := &models.Quiz{
		PassingScore: 60,
		Questions: []models.Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 3},
			{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Points: 5},
			{ID: "q3", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 2},
		},
	}
	started, completed := gradeTimes()

	for _, answers := range [][]int{{0, 1, 0}, {-1, -1, -1}, {1, 0, 1}} {
		result, err := Grade(quiz, answers, started, completed)
		require.NoError(t, err)
		require.Equal(t, 10, result.TotalPossible)
	}
}

// Pins the rounding mode: 1 of 8 points is 12.5%, which rounds away
// from zero to 13.
func TestGradePercentageRoundsHalfAwayFromZero(t *testing.T) {
	quiz := &models.Quiz{
		PassingScore: 60,
		Questions: []models.Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 1},
			{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: 0, Points: 7},
		},
	}
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{0, 1}, started, completed)
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 8, result.TotalPossible)
	require.Equal(t, 13, result.Percentage)
}

func TestGradeAnswerCountMismatch(t *testing.T) {
	quiz := twoQuestionQuiz(50)
	started, completed := gradeTimes()

	_, err := Grade(quiz, []int{1}, started, completed)
	require.Error(t, err)
	require.Equal(t, apperrors.KindAnswerCountMismatch, apperrors.KindOf(err))

	_, err = Grade(quiz, []int{1, 0, 1}, started, completed)
	require.Error(t, err)
	require.Equal(t, apperrors.KindAnswerCountMismatch, apperrors.KindOf(err))
}

func TestGradeInvalidTimeRange(t *testing.T) {
	quiz := twoQuestionQuiz(50)
	started := time.Now().Add(-time.Minute)

	_, err := Grade(quiz, []int{1, 0}, started, started.Add(-time.Second))
	require.Error(t, err)
	require.Equal(t, apperrors.KindInvalidTimeRange, apperrors.KindOf(err))

	future := time.Now().Add(time.Hour)
	_, err = Grade(quiz, []int{1, 0}, future, future.Add(time.Minute))
	require.Error(t, err)
	require.Equal(t, apperrors.KindInvalidTimeRange, apperrors.KindOf(err))
}

func TestGradeSnapshotsQuestionContent(t *testing.T) {
	quiz := twoQuestionQuiz(50)
	started, completed := gradeTimes()

	result, err := Grade(quiz, []int{0, 0}, started, completed)
	require.NoError(t, err)
	require.Len(t, result.Answers, 2)

	require.Equal(t, "q1", result.Answers[0].QuestionID)
	require.Equal(t, "2+2?", result.Answers[0].QuestionText)
	require.Equal(t, 1, result.Answers[0].CorrectAnswer)
	require.Equal(t, 1, result.Answers[0].PointsPossible)

	require.True(t, result.Answers[1].IsCorrect)
	require.Equal(t, 1, result.Answers[1].PointsEarned)
}

func TestPadAnswers(t *testing.T) {
	require.Equal(t, []int{-1, -1, -1}, PadAnswers(nil, 3))
	require.Equal(t, []int{1, -1, -1}, PadAnswers([]int{1}, 3))
	require.Equal(t, []int{1, 0}, PadAnswers([]int{1, 0, 2}, 2))
	require.Equal(t, []int{}, PadAnswers([]int{1}, 0))
}
