package service

import (
	"context"
	"fmt"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"
	"quiz-system/internal/repository"
	"quiz-system/internal/validation"
)

// QuizService is the admin-side quiz management: create, update,
// delete, assignment. Content edits are frozen once a submission
// references the quiz, so historical AnswerRecords stay truthful.
type QuizService struct {
	quizRepo       *repository.QuizRepository
	submissionRepo *repository.SubmissionRepository
	sink           ActivitySink
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	submissionRepo *repository.SubmissionRepository,
	sink ActivitySink,
) *QuizService {
	return &QuizService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		sink:           sink,
	}
}

func (s *QuizService) Create(ctx context.Context, quiz *models.Quiz, actor models.Actor) (*models.Quiz, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may create quizzes")
	}
	if errs := validation.ValidateQuiz(quiz); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid quiz", errs)
	}

	quiz.CreatedBy = actor.ID
	if err := s.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	s.sink.LogAndNotify(ctx, LogEntry{
		Action:      constants.ActionQuizCreated,
		Description: fmt.Sprintf("Created quiz %q with %d questions", quiz.Title, len(quiz.Questions)),
		PerformedBy: actor.ID,
		TargetQuiz:  quiz.ID,
	})

	return quiz, nil
}

func (s *QuizService) Update(ctx context.Context, quiz *models.Quiz, actor models.Actor) (*models.Quiz, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may update quizzes")
	}

	existing, err := s.quizRepo.GetQuizByID(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	if errs := validation.ValidateQuiz(quiz); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid quiz", errs)
	}

	referenced, err := s.quizRepo.HasSubmissions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	if referenced && contentChanged(existing, quiz) {
		return nil, apperrors.Newf(apperrors.KindConflict,
			"quiz %s has submissions; question content is frozen", quiz.ID)
	}

	quiz.CreatedBy = existing.CreatedBy
	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	s.sink.LogAndNotify(ctx, LogEntry{
		Action:      constants.ActionQuizUpdated,
		Description: fmt.Sprintf("Updated quiz %q", quiz.Title),
		PerformedBy: actor.ID,
		TargetQuiz:  quiz.ID,
	})

	return quiz, nil
}

// contentChanged reports whether the edit touches graded material
// rather than the always-editable fields (isActive, assignments,
// maxAttempts, timeLimit, title).
func contentChanged(existing, updated *models.Quiz) bool {
	if len(existing.Questions) != len(updated.Questions) {
		return true
	}
	if existing.PassingScore != updated.PassingScore {
		return true
	}
	for i := range existing.Questions {
		a, b := &existing.Questions[i], &updated.Questions[i]
		if a.Text != b.Text || a.CorrectAnswer != b.CorrectAnswer || a.Points != b.Points {
			return true
		}
		if len(a.Options) != len(b.Options) {
			return true
		}
		for j := range a.Options {
			if a.Options[j] != b.Options[j] {
				return true
			}
		}
	}
	return false
}

// Delete removes the quiz and cascades its submissions, the one path
// on which submissions are ever deleted.
func (s *QuizService) Delete(ctx context.Context, quizID string, actor models.Actor) error {
	if actor.Role != constants.RoleAdmin {
		return apperrors.New(apperrors.KindForbidden, "only admins may delete quizzes")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return err
	}

	if err := s.submissionRepo.DeleteByQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.quizRepo.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}

	s.sink.LogAndNotify(ctx, LogEntry{
		Action:      constants.ActionQuizDeleted,
		Description: fmt.Sprintf("Deleted quiz %q and its submissions", quiz.Title),
		PerformedBy: actor.ID,
		TargetQuiz:  quizID,
	})

	return nil
}

func (s *QuizService) GetByID(ctx context.Context, quizID string, actor models.Actor) (*models.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if actor.Role != constants.RoleAdmin {
		StripAnswerKey(quiz)
	}
	return quiz, nil
}

// ListForActor returns the quizzes the actor may see: admins get their
// own quizzes with answer keys, students get active assigned quizzes
// with the keys stripped.
func (s *QuizService) ListForActor(ctx context.Context, actor models.Actor) ([]*models.Quiz, error) {
	if actor.Role == constants.RoleAdmin {
		return s.quizRepo.GetQuizzesByCreator(ctx, actor.ID)
	}

	quizzes, err := s.quizRepo.GetQuizzesForStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, quiz := range quizzes {
		StripAnswerKey(quiz)
	}
	return quizzes, nil
}

func (s *QuizService) AssignStudents(ctx context.Context, quizID string, studentIDs []string, actor models.Actor) error {
	if actor.Role != constants.RoleAdmin {
		return apperrors.New(apperrors.KindForbidden, "only admins may assign quizzes")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return err
	}

	if err := s.quizRepo.AssignStudents(ctx, quizID, studentIDs); err != nil {
		return err
	}

	for _, studentID := range studentIDs {
		s.sink.LogAndNotify(ctx, LogEntry{
			Action:              constants.ActionQuizAssigned,
			Description:         fmt.Sprintf("Assigned quiz %q to student %s", quiz.Title, studentID),
			PerformedBy:         actor.ID,
			TargetUser:          studentID,
			TargetQuiz:          quizID,
			NotificationType:    constants.NotificationTypeQuizAssigned,
			NotificationTitle:   "New quiz assigned",
			NotificationMessage: fmt.Sprintf("You have been assigned the quiz %q.", quiz.Title),
		})
	}

	return nil
}

// StripAnswerKey blanks the fields a student must never see before a
// quiz leaves the service.
func StripAnswerKey(quiz *models.Quiz) {
	for i := range quiz.Questions {
		quiz.Questions[i].CorrectAnswer = -1
	}
	quiz.AssignedStudents = nil
}
