package dto

import (
	"time"

	"quiz-system/internal/models"
)

type SaveProgressRequest struct {
	Answers         []int `json:"answers" binding:"required"`
	Flagged         []int `json:"flagged"`
	CurrentQuestion int   `json:"current_question"`
	RemainingSec    int   `json:"remaining_sec"`
	StartedAt       int64 `json:"started_at"` // unix seconds
}

type SessionResponse struct {
	QuizID          string `json:"quiz_id"`
	Answers         []int  `json:"answers"`
	Flagged         []int  `json:"flagged,omitempty"`
	CurrentQuestion int    `json:"current_question"`
	RemainingSec    int    `json:"remaining_sec"`
	StartedAt       int64  `json:"started_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

func SessionToResponse(session *models.AttemptSession) SessionResponse {
	return SessionResponse{
		QuizID:          session.QuizID,
		Answers:         session.Answers,
		Flagged:         session.Flagged,
		CurrentQuestion: session.CurrentQuestion,
		RemainingSec:    session.RemainingSec,
		StartedAt:       session.StartedAt.Unix(),
		UpdatedAt:       session.UpdatedAt.Unix(),
	}
}

type SubmitRequest struct {
	Answers       []int `json:"answers" binding:"required"`
	TimeStarted   int64 `json:"time_started" binding:"required"`
	TimeCompleted int64 `json:"time_completed" binding:"required"`
	AttemptNumber int   `json:"attempt_number" binding:"required,min=1"`
}

type AnswerRecordDTO struct {
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedOption int    `json:"selected_option"`
	CorrectAnswer  int    `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	PointsPossible int    `json:"points_possible"`
}

type SubmissionResponse struct {
	ID            string            `json:"id"`
	StudentID     string            `json:"student_id"`
	QuizID        string            `json:"quiz_id"`
	AttemptNumber int               `json:"attempt_number"`
	Answers       []AnswerRecordDTO `json:"answers"`
	Score         int               `json:"score"`
	TotalPossible int               `json:"total_possible"`
	Percentage    int               `json:"percentage"`
	Passed        bool              `json:"passed"`
	TimeStarted   string            `json:"time_started"`
	TimeCompleted string            `json:"time_completed"`
	DurationSec   int               `json:"duration_sec"`
	Status        string            `json:"status"`
}

func SubmissionToResponse(submission *models.Submission) SubmissionResponse {
	answers := make([]AnswerRecordDTO, len(submission.Answers))
	for i, record := range submission.Answers {
		answers[i] = AnswerRecordDTO{
			QuestionID:     record.QuestionID,
			QuestionText:   record.QuestionText,
			SelectedOption: record.SelectedOption,
			CorrectAnswer:  record.CorrectAnswer,
			IsCorrect:      record.IsCorrect,
			PointsEarned:   record.PointsEarned,
			PointsPossible: record.PointsPossible,
		}
	}

	return SubmissionResponse{
		ID:            submission.ID,
		StudentID:     submission.StudentID,
		QuizID:        submission.QuizID,
		AttemptNumber: submission.AttemptNumber,
		Answers:       answers,
		Score:         submission.Score,
		TotalPossible: submission.TotalPossible,
		Percentage:    submission.Percentage,
		Passed:        submission.Passed,
		TimeStarted:   submission.TimeStarted.Format(time.RFC3339),
		TimeCompleted: submission.TimeCompleted.Format(time.RFC3339),
		DurationSec:   submission.DurationSec,
		Status:        submission.Status,
	}
}
