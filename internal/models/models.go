package models

import "time"

type Actor struct {
	ID   string
	Role string
}

type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	CreatedBy    string     `json:"created_by"`
	IsActive     bool       `json:"is_active"`
	PassingScore int        `json:"passing_score"`
	MaxAttempts  int        `json:"max_attempts"`
	TimeLimitMin int        `json:"time_limit_min"`
	Questions    []Question `json:"questions"`
	// Student ids assigned to this quiz. Loaded alongside the quiz row.
	AssignedStudents []string  `json:"assigned_students,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

// AttemptSession is the resumable in-progress state of one attempt,
// keyed by (student, quiz). The client sends the full state on every
// sync; the store overwrites, last write wins.
type AttemptSession struct {
	StudentID       string    `json:"student_id"`
	QuizID          string    `json:"quiz_id"`
	Answers         []int     `json:"answers"`
	Flagged         []int     `json:"flagged,omitempty"`
	CurrentQuestion int       `json:"current_question"`
	RemainingSec    int       `json:"remaining_sec"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AnswerRecord struct {
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedOption int    `json:"selected_option"`
	CorrectAnswer  int    `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	PointsPossible int    `json:"points_possible"`
}

type Submission struct {
	ID            string         `json:"id"`
	StudentID     string         `json:"student_id"`
	QuizID        string         `json:"quiz_id"`
	AttemptNumber int            `json:"attempt_number"`
	Answers       []AnswerRecord `json:"answers"`
	Score         int            `json:"score"`
	TotalPossible int            `json:"total_possible"`
	Percentage    int            `json:"percentage"`
	Passed        bool           `json:"passed"`
	TimeStarted   time.Time      `json:"time_started"`
	TimeCompleted time.Time      `json:"time_completed"`
	DurationSec   int            `json:"duration_sec"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

// GradedResult is the output of the grading engine before it is turned
// into a durable Submission.
type GradedResult struct {
	Answers         []AnswerRecord
	Score           int
	TotalPossible   int
	Percentage      int
	Passed          bool
	CorrectCount    int
	IncorrectCount  int
	UnansweredCount int
	TimeStarted     time.Time
	TimeCompleted   time.Time
	DurationSec     int
}

type ActivityLog struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	PerformedBy string    `json:"performed_by"`
	TargetUser  string    `json:"target_user,omitempty"`
	TargetQuiz  string    `json:"target_quiz,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
