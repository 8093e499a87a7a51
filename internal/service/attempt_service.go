package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"
	"quiz-system/internal/validation"
)

type SessionStore interface {
	SaveProgress(ctx context.Context, session *models.AttemptSession) error
	LoadProgress(ctx context.Context, studentID, quizID string) (*models.AttemptSession, error)
	Clear(ctx context.Context, studentID, quizID string) error
}

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, submissionID string) (*models.Submission, error)
	CountAttempts(ctx context.Context, studentID, quizID string) (int, error)
}

type ActivitySink interface {
	LogAndNotify(ctx context.Context, entry LogEntry)
}

// AttemptService drives one attempt through its lifecycle: access
// check, session persistence while in progress, grading on submit,
// durable submission, session teardown, and the fire-and-forget
// notification at the end.
type AttemptService struct {
	access      *AccessValidator
	sessions    SessionStore
	submissions SubmissionStore
	sink        ActivitySink
}

func NewAttemptService(
	access *AccessValidator,
	sessions SessionStore,
	submissions SubmissionStore,
	sink ActivitySink,
) *AttemptService {
	return &AttemptService{
		access:      access,
		sessions:    sessions,
		submissions: submissions,
		sink:        sink,
	}
}

// Start validates access and creates a fresh session with every
// question unanswered. An existing session for the pair is overwritten.
func (s *AttemptService) Start(ctx context.Context, quizID string, actor models.Actor) (*models.AttemptSession, error) {
	quiz, err := s.access.CheckAccess(ctx, quizID, actor)
	if err != nil {
		return nil, err
	}

	used, err := s.submissions.CountAttempts(ctx, actor.ID, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckAttemptLimit(ctx, quiz, actor, used+1, s.submissions); err != nil {
		return nil, err
	}

	session := &models.AttemptSession{
		StudentID:    actor.ID,
		QuizID:       quizID,
		Answers:      PadAnswers(nil, len(quiz.Questions)),
		RemainingSec: quiz.TimeLimitMin * 60,
		StartedAt:    time.Now(),
	}

	if err := s.sessions.SaveProgress(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveProgress upserts the client's full current state. Last write
// wins; concurrent syncs for the same pair race benignly because the
// state is advisory and recoverable.
func (s *AttemptService) SaveProgress(ctx context.Context, quizID string, actor models.Actor, session *models.AttemptSession) error {
	quiz, err := s.access.CheckAccess(ctx, quizID, actor)
	if err != nil {
		return err
	}

	if errs := validation.ValidateSession(session, quiz); len(errs) > 0 {
		return apperrors.Wrap(apperrors.KindValidation, "invalid session state", errs)
	}

	session.StudentID = actor.ID
	session.QuizID = quizID
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	return s.sessions.SaveProgress(ctx, session)
}

func (s *AttemptService) LoadProgress(ctx context.Context, quizID string, actor models.Actor) (*models.AttemptSession, error) {
	if _, err := s.access.CheckAccess(ctx, quizID, actor); err != nil {
		return nil, err
	}
	return s.sessions.LoadProgress(ctx, actor.ID, quizID)
}

func (s *AttemptService) ClearProgress(ctx context.Context, quizID string, actor models.Actor) error {
	if _, err := s.access.CheckAccess(ctx, quizID, actor); err != nil {
		return err
	}
	return s.sessions.Clear(ctx, actor.ID, quizID)
}

// SubmitManual grades a client-supplied answer array. The answer count
// must match the quiz exactly; short or long arrays are rejected rather
// than padded.
func (s *AttemptService) SubmitManual(ctx context.Context, quizID string, actor models.Actor, answers []int, timeStarted, timeCompleted time.Time, attemptNumber int) (*models.Submission, error) {
	quiz, err := s.access.CheckAccess(ctx, quizID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckAttemptLimit(ctx, quiz, actor, attemptNumber, s.submissions); err != nil {
		return nil, err
	}

	result, err := Grade(quiz, answers, timeStarted, timeCompleted)
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, quiz, actor, result, attemptNumber, constants.SubmissionStatusCompleted)
}

// SubmitAuto grades whatever the saved session holds. Callers invoke it
// when the client-reported time expires; the completion timestamp is
// the server's now, the start timestamp the session's.
func (s *AttemptService) SubmitAuto(ctx context.Context, quizID string, actor models.Actor) (*models.Submission, error) {
	quiz, err := s.access.CheckAccess(ctx, quizID, actor)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.LoadProgress(ctx, actor.ID, quizID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.Newf(apperrors.KindNoActiveSession,
			"no active session for student %s on quiz %s", actor.ID, quizID)
	}

	answers := PadAnswers(session.Answers, len(quiz.Questions))
	result, err := Grade(quiz, answers, session.StartedAt, time.Now())
	if err != nil {
		return nil, err
	}

	used, err := s.submissions.CountAttempts(ctx, actor.ID, quizID)
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, quiz, actor, result, used+1, constants.SubmissionStatusAutoSubmitted)
}

// finalize persists the submission, then clears the session, then
// notifies. Order matters: the session survives a failed write so the
// attempt can be retried, and a failed notification never undoes a
// durable submission.
func (s *AttemptService) finalize(ctx context.Context, quiz *models.Quiz, actor models.Actor, result *models.GradedResult, attemptNumber int, status string) (*models.Submission, error) {
	submission := &models.Submission{
		StudentID:     actor.ID,
		QuizID:        quiz.ID,
		AttemptNumber: attemptNumber,
		Answers:       result.Answers,
		Score:         result.Score,
		TotalPossible: result.TotalPossible,
		Percentage:    result.Percentage,
		Passed:        result.Passed,
		TimeStarted:   result.TimeStarted,
		TimeCompleted: result.TimeCompleted,
		DurationSec:   result.DurationSec,
		Status:        status,
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	if err := s.sessions.Clear(ctx, actor.ID, quiz.ID); err != nil {
		log.Printf("Failed to clear session for student %s, quiz %s: %v", actor.ID, quiz.ID, err)
	}

	description := fmt.Sprintf("Submitted quiz %q, attempt %d, scored %d%%", quiz.Title, attemptNumber, submission.Percentage)
	title := "Quiz submitted"
	message := fmt.Sprintf("Your answers for %q were submitted. You scored %d%%.", quiz.Title, submission.Percentage)
	if status == constants.SubmissionStatusAutoSubmitted {
		description = fmt.Sprintf("Quiz %q auto-submitted on timeout, attempt %d, scored %d%%", quiz.Title, attemptNumber, submission.Percentage)
		title = "Quiz auto-submitted"
		message = fmt.Sprintf("Time ran out on %q, so your answers were submitted automatically. You scored %d%%.", quiz.Title, submission.Percentage)
	}

	s.sink.LogAndNotify(ctx, LogEntry{
		Action:              constants.ActionQuizSubmitted,
		Description:         description,
		PerformedBy:         actor.ID,
		TargetUser:          actor.ID,
		TargetQuiz:          quiz.ID,
		NotificationType:    constants.NotificationTypeQuizSubmitted,
		NotificationTitle:   title,
		NotificationMessage: message,
	})

	return submission, nil
}

// GetSubmission returns the detailed result, visible only to its owner
// or an admin.
func (s *AttemptService) GetSubmission(ctx context.Context, submissionID string, actor models.Actor) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if actor.Role != constants.RoleAdmin && submission.StudentID != actor.ID {
		return nil, apperrors.Newf(apperrors.KindForbidden,
			"actor %s may not view submission %s", actor.ID, submissionID)
	}

	return submission, nil
}
