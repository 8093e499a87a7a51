package service

import (
	"testing"

	"quiz-system/internal/models"

	"github.com/stretchr/testify/require"
)

func contentFixture() *models.Quiz {
	return &models.Quiz{
		ID:           "quiz-1",
		Title:        "Basics",
		PassingScore: 60,
		MaxAttempts:  3,
		Questions: []models.Question{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Points: 1},
		},
	}
}

func TestContentChangedIgnoresMetadataEdits(t *testing.T) {
	existing := contentFixture()
	updated := contentFixture()
	updated.Title = "Basics (retired)"
	updated.IsActive = false
	updated.MaxAttempts = 1
	updated.TimeLimitMin = 5

	require.False(t, contentChanged(existing, updated))
}

func TestContentChangedDetectsGradedMaterialEdits(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(q *models.Quiz)
	}{
		{"question text", func(q *models.Quiz) { q.Questions[0].Text = "3+3?" }},
		{"correct answer", func(q *models.Quiz) { q.Questions[0].CorrectAnswer = 0 }},
		{"points", func(q *models.Quiz) { q.Questions[0].Points = 5 }},
		{"option wording", func(q *models.Quiz) { q.Questions[0].Options[0] = "5" }},
		{"option count", func(q *models.Quiz) { q.Questions[0].Options = append(q.Questions[0].Options, "6") }},
		{"question count", func(q *models.Quiz) {
			q.Questions = append(q.Questions, models.Question{Text: "new", Options: []string{"a", "b"}, Points: 1})
		}},
		{"passing score", func(q *models.Quiz) { q.PassingScore = 80 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := contentFixture()
			updated := contentFixture()
			tc.mutate(updated)
			require.True(t, contentChanged(existing, updated))
		})
	}
}

func TestStripAnswerKey(t *testing.T) {
	quiz := contentFixture()
	quiz.AssignedStudents = []string{"student-1", "student-2"}

	StripAnswerKey(quiz)

	require.Equal(t, -1, quiz.Questions[0].CorrectAnswer)
	require.Nil(t, quiz.AssignedStudents)
}
