package service

import (
	"math"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"
)

// Grade scores a full answer array against the quiz answer key. The
// computation is pure: no I/O, no clock reads, deterministic for a
// given input.
//
// answers must be exactly as long as quiz.Questions; callers on the
// auto-submit path pad with PadAnswers first. Each entry is an option
// index or constants.Unanswered. Percentage uses math.Round, so x.5
// rounds away from zero.
func Grade(quiz *models.Quiz, answers []int, timeStarted, timeCompleted time.Time) (*models.GradedResult, error) {
	if len(answers) != len(quiz.Questions) {
		return nil, apperrors.Newf(apperrors.KindAnswerCountMismatch,
			"expected %d answers, got %d", len(quiz.Questions), len(answers))
	}
	if timeCompleted.Before(timeStarted) {
		return nil, apperrors.New(apperrors.KindInvalidTimeRange, "completion time precedes start time")
	}
	if timeStarted.After(time.Now()) {
		return nil, apperrors.New(apperrors.KindInvalidTimeRange, "start time is in the future")
	}

	result := &models.GradedResult{
		Answers:       make([]models.AnswerRecord, 0, len(quiz.Questions)),
		TimeStarted:   timeStarted,
		TimeCompleted: timeCompleted,
		DurationSec:   int(timeCompleted.Sub(timeStarted).Seconds()),
	}

	for i, question := range quiz.Questions {
		selected := answers[i]

		// The unanswered sentinel never equals a valid option index,
		// so a skipped question cannot be scored correct.
		isCorrect := selected == question.CorrectAnswer

		pointsEarned := 0
		if isCorrect {
			pointsEarned = question.Points
			result.CorrectCount++
		} else if selected == constants.Unanswered {
			result.UnansweredCount++
		} else {
			result.IncorrectCount++
		}

		result.Score += pointsEarned
		result.TotalPossible += question.Points

		result.Answers = append(result.Answers, models.AnswerRecord{
			QuestionID:     question.ID,
			QuestionText:   question.Text,
			SelectedOption: selected,
			CorrectAnswer:  question.CorrectAnswer,
			IsCorrect:      isCorrect,
			PointsEarned:   pointsEarned,
			PointsPossible: question.Points,
		})
	}

	if result.TotalPossible > 0 {
		result.Percentage = int(math.Round(100 * float64(result.Score) / float64(result.TotalPossible)))
	}
	result.Passed = result.Percentage >= quiz.PassingScore

	return result, nil
}

// PadAnswers fills a possibly short answer array out to n entries with
// the unanswered sentinel, and truncates anything beyond n. Used by the
// auto-submit path, which grades whatever the session holds.
func PadAnswers(answers []int, n int) []int {
	padded := make([]int, n)
	for i := range padded {
		if i < len(answers) {
			padded[i] = answers[i]
		} else {
			padded[i] = constants.Unanswered
		}
	}
	return padded
}
