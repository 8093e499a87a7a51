package dto

import (
	"time"

	"quiz-system/internal/models"
)

type QuestionInput struct {
	ID            string   `json:"id"`
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points" binding:"required,min=1,max=10"`
}

type CreateQuizRequest struct {
	Title        string          `json:"title" binding:"required"`
	IsActive     bool            `json:"is_active"`
	PassingScore int             `json:"passing_score" binding:"min=0,max=100"`
	MaxAttempts  int             `json:"max_attempts" binding:"required,min=1"`
	TimeLimitMin int             `json:"time_limit_min" binding:"min=0"`
	Questions    []QuestionInput `json:"questions" binding:"required,min=1"`
}

func (r *CreateQuizRequest) ToModel() *models.Quiz {
	questions := make([]models.Question, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = models.Question{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
		}
	}
	return &models.Quiz{
		Title:        r.Title,
		IsActive:     r.IsActive,
		PassingScore: r.PassingScore,
		MaxAttempts:  r.MaxAttempts,
		TimeLimitMin: r.TimeLimitMin,
		Questions:    questions,
	}
}

type AssignStudentsRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1"`
}

type QuestionDTO struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

type QuizDTO struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	CreatedBy        string        `json:"created_by"`
	IsActive         bool          `json:"is_active"`
	PassingScore     int           `json:"passing_score"`
	MaxAttempts      int           `json:"max_attempts"`
	TimeLimitMin     int           `json:"time_limit_min"`
	Questions        []QuestionDTO `json:"questions"`
	AssignedStudents []string      `json:"assigned_students,omitempty"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
}

func QuizToDTO(quiz *models.Quiz) QuizDTO {
	questions := make([]QuestionDTO, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = QuestionDTO{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			OrderIndex:    q.OrderIndex,
		}
	}
	return QuizDTO{
		ID:               quiz.ID,
		Title:            quiz.Title,
		CreatedBy:        quiz.CreatedBy,
		IsActive:         quiz.IsActive,
		PassingScore:     quiz.PassingScore,
		MaxAttempts:      quiz.MaxAttempts,
		TimeLimitMin:     quiz.TimeLimitMin,
		Questions:        questions,
		AssignedStudents: quiz.AssignedStudents,
		CreatedAt:        quiz.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        quiz.UpdatedAt.Format(time.RFC3339),
	}
}

type QuizListResponse struct {
	Quizzes []QuizDTO `json:"quizzes"`
}

type NotificationDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Total         int               `json:"total"`
}
