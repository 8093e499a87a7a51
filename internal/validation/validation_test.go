package validation

import (
	"testing"

	"quiz-system/internal/models"

	"github.com/stretchr/testify/require"
)

func validQuiz() *models.Quiz {
	return &models.Quiz{
		Title:        "Networking basics",
		PassingScore: 60,
		MaxAttempts:  3,
		TimeLimitMin: 20,
		Questions: []models.Question{
			{Text: "What does TCP stand for?", Options: []string{"a", "b", "c"}, CorrectAnswer: 0, Points: 2},
			{Text: "Default HTTPS port?", Options: []string{"80", "443"}, CorrectAnswer: 1, Points: 1},
		},
	}
}

func fields(errs Errors) []string {
	names := make([]string, 0, len(errs))
	for _, fe := range errs {
		names = append(names, fe.Field)
	}
	return names
}

func TestValidateQuizAcceptsValidQuiz(t *testing.T) {
	require.Empty(t, ValidateQuiz(validQuiz()))
}

func TestValidateQuizRejectsEmptyTitle(t *testing.T) {
	quiz := validQuiz()
	quiz.Title = "   "
	require.Contains(t, fields(ValidateQuiz(quiz)), "title")
}

func TestValidateQuizRejectsPassingScoreOutOfRange(t *testing.T) {
	quiz := validQuiz()
	quiz.PassingScore = 101
	require.Contains(t, fields(ValidateQuiz(quiz)), "passing_score")

	quiz.PassingScore = -1
	require.Contains(t, fields(ValidateQuiz(quiz)), "passing_score")
}

func TestValidateQuizRequiresQuestions(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions = nil
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions")
}

func TestValidateQuizRejectsSingleOptionQuestion(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0].Options = []string{"only"}
	quiz.Questions[0].CorrectAnswer = 0
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions[0].options")
}

func TestValidateQuizRejectsCorrectAnswerOutOfBounds(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[1].CorrectAnswer = 2
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions[1].correct_answer")

	quiz.Questions[1].CorrectAnswer = -1
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions[1].correct_answer")
}

func TestValidateQuizRejectsPointsOutOfRange(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0].Points = 0
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions[0].points")

	quiz.Questions[0].Points = 11
	require.Contains(t, fields(ValidateQuiz(quiz)), "questions[0].points")
}

func TestValidateQuizCollectsAllErrors(t *testing.T) {
	quiz := &models.Quiz{PassingScore: 150, MaxAttempts: 0}
	errs := ValidateQuiz(quiz)
	require.Contains(t, fields(errs), "title")
	require.Contains(t, fields(errs), "passing_score")
	require.Contains(t, fields(errs), "max_attempts")
	require.Contains(t, fields(errs), "questions")
}

func TestValidateSessionAcceptsPartialAnswers(t *testing.T) {
	session := &models.AttemptSession{
		Answers:         []int{0, -1},
		CurrentQuestion: 1,
		RemainingSec:    120,
	}
	require.Empty(t, ValidateSession(session, validQuiz()))
}

func TestValidateSessionRejectsOutOfRangeOption(t *testing.T) {
	session := &models.AttemptSession{
		Answers: []int{3, 0}, // question 0 has only three options
	}
	require.Contains(t, fields(ValidateSession(session, validQuiz())), "answers[0]")
}

func TestValidateSessionRejectsTooManyAnswers(t *testing.T) {
	session := &models.AttemptSession{
		Answers: []int{0, 0, 0},
	}
	require.Contains(t, fields(ValidateSession(session, validQuiz())), "answers")
}

func TestValidateSessionRejectsCursorOutOfRange(t *testing.T) {
	session := &models.AttemptSession{
		Answers:         []int{0, 0},
		CurrentQuestion: 2,
	}
	require.Contains(t, fields(ValidateSession(session, validQuiz())), "current_question")
}

func TestValidateSessionRejectsNegativeRemainingTime(t *testing.T) {
	session := &models.AttemptSession{
		Answers:      []int{0, 0},
		RemainingSec: -1,
	}
	require.Contains(t, fields(ValidateSession(session, validQuiz())), "remaining_sec")
}
