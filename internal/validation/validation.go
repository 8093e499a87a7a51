package validation

import (
	"fmt"
	"strings"

	"quiz-system/internal/models"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

func (e Errors) add(field, message string) Errors {
	return append(e, FieldError{Field: field, Message: message})
}

// ValidateQuiz checks the structural invariants of a quiz before it is
// persisted or graded against: at least one question, each question with
// at least two options, correct answer in bounds, points 1..10.
func ValidateQuiz(q *models.Quiz) Errors {
	var errs Errors

	if strings.TrimSpace(q.Title) == "" {
		errs = errs.add("title", "title is required")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		errs = errs.add("passing_score", "must be between 0 and 100")
	}
	if q.MaxAttempts < 1 {
		errs = errs.add("max_attempts", "must be at least 1")
	}
	if q.TimeLimitMin < 0 {
		errs = errs.add("time_limit_min", "must not be negative")
	}
	if len(q.Questions) == 0 {
		errs = errs.add("questions", "at least one question is required")
	}

	for i, question := range q.Questions {
		errs = append(errs, validateQuestion(i, &question)...)
	}

	return errs
}

func validateQuestion(index int, q *models.Question) Errors {
	var errs Errors
	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", index, name)
	}

	if strings.TrimSpace(q.Text) == "" {
		errs = errs.add(field("text"), "text is required")
	}
	if len(q.Options) < 2 {
		errs = errs.add(field("options"), "at least two options are required")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		errs = errs.add(field("correct_answer"), "must index an existing option")
	}
	if q.Points < 1 || q.Points > 10 {
		errs = errs.add(field("points"), "must be between 1 and 10")
	}

	return errs
}

// ValidateSession checks a client-synced attempt session before it is
// stored. Answers may be sparse but never reference options that do not
// exist for the matching question.
func ValidateSession(s *models.AttemptSession, quiz *models.Quiz) Errors {
	var errs Errors

	if len(s.Answers) > len(quiz.Questions) {
		errs = errs.add("answers", "more answers than questions")
	}
	for i, answer := range s.Answers {
		if i >= len(quiz.Questions) {
			break
		}
		if answer != -1 && (answer < 0 || answer >= len(quiz.Questions[i].Options)) {
			errs = errs.add(fmt.Sprintf("answers[%d]", i), "selected option out of range")
		}
	}
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(quiz.Questions) {
		errs = errs.add("current_question", "out of range")
	}
	if s.RemainingSec < 0 {
		errs = errs.add("remaining_sec", "must not be negative")
	}

	return errs
}
