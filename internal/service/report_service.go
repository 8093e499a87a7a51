package service

import (
	"context"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"
	"quiz-system/internal/repository"
)

type StudentReport struct {
	StudentID         string               `json:"student_id"`
	Submissions       []*models.Submission `json:"submissions"`
	TotalSubmissions  int                  `json:"total_submissions"`
	AveragePercentage float64              `json:"average_percentage"`
	PassedCount       int                  `json:"passed_count"`
}

type GradebookEntry struct {
	QuizID        string `json:"quiz_id"`
	BestScore     int    `json:"best_score"`
	TotalPossible int    `json:"total_possible"`
	Percentage    int    `json:"percentage"`
	Passed        bool   `json:"passed"`
	Attempts      int    `json:"attempts"`
}

type QuizReport struct {
	QuizID            string  `json:"quiz_id"`
	SubmissionCount   int     `json:"submission_count"`
	AveragePercentage float64 `json:"average_percentage"`
	PassRate          float64 `json:"pass_rate"`
}

type OverviewReport struct {
	TotalSubmissions  int     `json:"total_submissions"`
	AveragePercentage float64 `json:"average_percentage"`
	MostPopularQuizID string  `json:"most_popular_quiz_id,omitempty"`
}

// ReportService is the read side over submissions: per-student reports,
// the gradebook, per-quiz aggregates. It never mutates anything.
type ReportService struct {
	submissionRepo *repository.SubmissionRepository
	quizRepo       *repository.QuizRepository
	activityRepo   *repository.ActivityRepository
}

func NewReportService(submissionRepo *repository.SubmissionRepository, quizRepo *repository.QuizRepository, activityRepo *repository.ActivityRepository) *ReportService {
	return &ReportService{
		submissionRepo: submissionRepo,
		quizRepo:       quizRepo,
		activityRepo:   activityRepo,
	}
}

// StudentReport lists every submission a student made plus aggregates.
// Students may only request their own report.
func (s *ReportService) StudentReport(ctx context.Context, studentID string, actor models.Actor) (*StudentReport, error) {
	if actor.Role != constants.RoleAdmin && actor.ID != studentID {
		return nil, apperrors.Newf(apperrors.KindForbidden, "actor %s may not view reports for student %s", actor.ID, studentID)
	}

	submissions, err := s.submissionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	report := &StudentReport{
		StudentID:        studentID,
		Submissions:      submissions,
		TotalSubmissions: len(submissions),
	}

	sum := 0
	for _, submission := range submissions {
		sum += submission.Percentage
		if submission.Passed {
			report.PassedCount++
		}
	}
	if len(submissions) > 0 {
		report.AveragePercentage = float64(sum) / float64(len(submissions))
	}

	return report, nil
}

// Gradebook returns the best submission per quiz for a student.
func (s *ReportService) Gradebook(ctx context.Context, studentID string, actor models.Actor) ([]GradebookEntry, error) {
	if actor.Role != constants.RoleAdmin && actor.ID != studentID {
		return nil, apperrors.Newf(apperrors.KindForbidden, "actor %s may not view the gradebook for student %s", actor.ID, studentID)
	}

	submissions, err := s.submissionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	quizIDs := make([]string, 0)
	attempts := make(map[string]int)
	for _, submission := range submissions {
		if _, seen := attempts[submission.QuizID]; !seen {
			quizIDs = append(quizIDs, submission.QuizID)
		}
		attempts[submission.QuizID]++
	}

	entries := make([]GradebookEntry, 0, len(quizIDs))
	for _, quizID := range quizIDs {
		best, err := s.submissionRepo.FindBest(ctx, studentID, quizID)
		if err != nil {
			return nil, err
		}
		if best == nil {
			continue
		}
		entries = append(entries, GradebookEntry{
			QuizID:        quizID,
			BestScore:     best.Score,
			TotalPossible: best.TotalPossible,
			Percentage:    best.Percentage,
			Passed:        best.Passed,
			Attempts:      attempts[quizID],
		})
	}

	return entries, nil
}

// QuizReport aggregates all submissions for one quiz. Admin only.
func (s *ReportService) QuizReport(ctx context.Context, quizID string, actor models.Actor) (*QuizReport, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may view quiz reports")
	}

	if _, err := s.quizRepo.GetQuizByID(ctx, quizID); err != nil {
		return nil, err
	}

	count, err := s.submissionRepo.CountForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	average, err := s.submissionRepo.AggregateAverage(ctx, repository.AverageFilter{QuizID: quizID})
	if err != nil {
		return nil, err
	}
	passRate, err := s.submissionRepo.PassRate(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return &QuizReport{
		QuizID:            quizID,
		SubmissionCount:   count,
		AveragePercentage: average,
		PassRate:          passRate,
	}, nil
}

// QuizSubmissions lists every submission for one quiz. Admin only.
func (s *ReportService) QuizSubmissions(ctx context.Context, quizID string, actor models.Actor) ([]*models.Submission, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may list quiz submissions")
	}

	if _, err := s.quizRepo.GetQuizByID(ctx, quizID); err != nil {
		return nil, err
	}

	return s.submissionRepo.ListByQuiz(ctx, quizID)
}

// Overview aggregates across every submission in the system. Admin only.
func (s *ReportService) Overview(ctx context.Context, actor models.Actor) (*OverviewReport, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may view the overview report")
	}

	average, err := s.submissionRepo.AggregateAverage(ctx, repository.AverageFilter{})
	if err != nil {
		return nil, err
	}

	popularQuizID, _, err := s.submissionRepo.MostPopularQuiz(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.submissionRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &OverviewReport{
		TotalSubmissions:  total,
		AveragePercentage: average,
		MostPopularQuizID: popularQuizID,
	}, nil
}

// RecentActivity returns the latest activity log lines. Admin only.
func (s *ReportService) RecentActivity(ctx context.Context, limit int, actor models.Actor) ([]*models.ActivityLog, error) {
	if actor.Role != constants.RoleAdmin {
		return nil, apperrors.New(apperrors.KindForbidden, "only admins may view the activity log")
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.GetRecent(ctx, limit)
}
