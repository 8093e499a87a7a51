package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/constants"
	"quiz-system/internal/models"

	"github.com/stretchr/testify/require"
)

// fakeSessionStore stores sessions as JSON, like the Redis-backed
// store, so round-trip tests also cover serialization fidelity.
type fakeSessionStore struct {
	data    map[string][]byte
	saveErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: make(map[string][]byte)}
}

func (f *fakeSessionStore) key(studentID, quizID string) string {
	return quizID + "/" + studentID
}

func (f *fakeSessionStore) SaveProgress(ctx context.Context, session *models.AttemptSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	f.data[f.key(session.StudentID, session.QuizID)] = data
	return nil
}

func (f *fakeSessionStore) LoadProgress(ctx context.Context, studentID, quizID string) (*models.AttemptSession, error) {
	data, ok := f.data[f.key(studentID, quizID)]
	if !ok {
		return nil, nil
	}
	session := &models.AttemptSession{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (f *fakeSessionStore) Clear(ctx context.Context, studentID, quizID string) error {
	delete(f.data, f.key(studentID, quizID))
	return nil
}

type fakeSubmissionStore struct {
	submissions []*models.Submission
	createErr   error
}

func (f *fakeSubmissionStore) Create(ctx context.Context, submission *models.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.submissions {
		if existing.StudentID == submission.StudentID &&
			existing.QuizID == submission.QuizID &&
			existing.AttemptNumber == submission.AttemptNumber {
			return apperrors.Newf(apperrors.KindConflict,
				"submission already exists for attempt %d", submission.AttemptNumber)
		}
	}
	submission.ID = "sub-1"
	f.submissions = append(f.submissions, submission)
	return nil
}

func (f *fakeSubmissionStore) GetByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ID == submissionID {
			return submission, nil
		}
	}
	return nil, apperrors.Newf(apperrors.KindNotFound, "submission %s not found", submissionID)
}

func (f *fakeSubmissionStore) CountAttempts(ctx context.Context, studentID, quizID string) (int, error) {
	count := 0
	for _, submission := range f.submissions {
		if submission.StudentID == studentID && submission.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

type fakeSink struct {
	entries []LogEntry
}

func (f *fakeSink) LogAndNotify(ctx context.Context, entry LogEntry) {
	f.entries = append(f.entries, entry)
}

type attemptFixture struct {
	service     *AttemptService
	sessions    *fakeSessionStore
	submissions *fakeSubmissionStore
	sink        *fakeSink
	quiz        *models.Quiz
	student     models.Actor
}

func newAttemptFixture() *attemptFixture {
	quiz := &models.Quiz{
		ID:               "quiz-1",
		Title:            "Basics",
		IsActive:         true,
		PassingScore:     50,
		MaxAttempts:      3,
		TimeLimitMin:     30,
		AssignedStudents: []string{"student-1"},
		Questions: []models.Question{
			{ID: "q1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Points: 1},
			{ID: "q2", Text: "3+3?", Options: []string{"6", "7"}, CorrectAnswer: 0, Points: 1},
		},
	}

	catalog := &fakeCatalog{quizzes: map[string]*models.Quiz{"quiz-1": quiz}}
	sessions := newFakeSessionStore()
	submissions := &fakeSubmissionStore{}
	sink := &fakeSink{}

	return &attemptFixture{
		service:     NewAttemptService(NewAccessValidator(catalog), sessions, submissions, sink),
		sessions:    sessions,
		submissions: submissions,
		sink:        sink,
		quiz:        quiz,
		student:     models.Actor{ID: "student-1", Role: constants.RoleStudent},
	}
}

func TestStartCreatesEmptySession(t *testing.T) {
	fx := newAttemptFixture()

	session, err := fx.service.Start(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)
	require.Equal(t, []int{-1, -1}, session.Answers)
	require.Equal(t, 30*60, session.RemainingSec)

	stored, err := fx.sessions.LoadProgress(context.Background(), "student-1", "quiz-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestStartForbiddenForUnassignedStudent(t *testing.T) {
	fx := newAttemptFixture()

	_, err := fx.service.Start(context.Background(), "quiz-1", models.Actor{ID: "student-2", Role: constants.RoleStudent})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fx := newAttemptFixture()

	session := &models.AttemptSession{
		Answers:         []int{1, -1},
		Flagged:         []int{1},
		CurrentQuestion: 1,
		RemainingSec:    900,
		StartedAt:       time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, fx.service.SaveProgress(context.Background(), "quiz-1", fx.student, session))

	loaded, err := fx.service.LoadProgress(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, []int{1, -1}, loaded.Answers)
	require.Equal(t, []int{1}, loaded.Flagged)
	require.Equal(t, 1, loaded.CurrentQuestion)
	require.Equal(t, 900, loaded.RemainingSec)
	require.Equal(t, "student-1", loaded.StudentID)
	require.Equal(t, "quiz-1", loaded.QuizID)
}

func TestSaveProgressRejectsInvalidState(t *testing.T) {
	fx := newAttemptFixture()

	session := &models.AttemptSession{
		Answers:         []int{5, -1}, // option 5 does not exist
		CurrentQuestion: 0,
	}
	err := fx.service.SaveProgress(context.Background(), "quiz-1", fx.student, session)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestClearProgressIsIdempotent(t *testing.T) {
	fx := newAttemptFixture()

	_, err := fx.service.Start(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)

	require.NoError(t, fx.service.ClearProgress(context.Background(), "quiz-1", fx.student))
	require.NoError(t, fx.service.ClearProgress(context.Background(), "quiz-1", fx.student))
}

func TestSubmitManualHappyPath(t *testing.T) {
	fx := newAttemptFixture()

	_, err := fx.service.Start(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)

	started := time.Now().Add(-10 * time.Minute)
	submission, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 1}, started, started.Add(5*time.Minute), 1)
	require.NoError(t, err)

	require.Equal(t, 1, submission.Score)
	require.Equal(t, 50, submission.Percentage)
	require.True(t, submission.Passed)
	require.Equal(t, constants.SubmissionStatusCompleted, submission.Status)
	require.Equal(t, 300, submission.DurationSec)

	// Session is gone, notification was emitted.
	stored, err := fx.sessions.LoadProgress(context.Background(), "student-1", "quiz-1")
	require.NoError(t, err)
	require.Nil(t, stored)

	require.Len(t, fx.sink.entries, 1)
	require.Equal(t, constants.ActionQuizSubmitted, fx.sink.entries[0].Action)
	require.Equal(t, "Quiz submitted", fx.sink.entries[0].NotificationTitle)
}

func TestSubmitManualAnswerCountMismatch(t *testing.T) {
	fx := newAttemptFixture()

	started := time.Now().Add(-time.Minute)
	_, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1}, started, time.Now(), 1)
	require.Equal(t, apperrors.KindAnswerCountMismatch, apperrors.KindOf(err))
	require.Empty(t, fx.submissions.submissions)
}

func TestSubmitManualInvalidTimeRange(t *testing.T) {
	fx := newAttemptFixture()

	started := time.Now()
	_, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 0}, started, started.Add(-time.Minute), 1)
	require.Equal(t, apperrors.KindInvalidTimeRange, apperrors.KindOf(err))
	require.Empty(t, fx.submissions.submissions)
}

func TestSubmitManualDuplicateAttemptRejected(t *testing.T) {
	fx := newAttemptFixture()

	started := time.Now().Add(-10 * time.Minute)
	completed := started.Add(5 * time.Minute)

	_, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 0}, started, completed, 1)
	require.NoError(t, err)

	_, err = fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 0}, started, completed, 1)
	require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	require.Len(t, fx.submissions.submissions, 1)
}

func TestSubmitManualKeepsSessionOnPersistenceFailure(t *testing.T) {
	fx := newAttemptFixture()

	_, err := fx.service.Start(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)

	fx.submissions.createErr = apperrors.New(apperrors.KindPersistenceFailure, "insert failed")

	started := time.Now().Add(-10 * time.Minute)
	_, err = fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 0}, started, started.Add(time.Minute), 1)
	require.Equal(t, apperrors.KindPersistenceFailure, apperrors.KindOf(err))

	// The attempt must stay recoverable.
	stored, err := fx.sessions.LoadProgress(context.Background(), "student-1", "quiz-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Empty(t, fx.sink.entries)
}

func TestSubmitAutoWithoutSession(t *testing.T) {
	fx := newAttemptFixture()

	_, err := fx.service.SubmitAuto(context.Background(), "quiz-1", fx.student)
	require.Equal(t, apperrors.KindNoActiveSession, apperrors.KindOf(err))
	require.Empty(t, fx.submissions.submissions)
}

func TestSubmitAutoPadsMissingAnswers(t *testing.T) {
	fx := newAttemptFixture()

	session := &models.AttemptSession{
		StudentID: "student-1",
		QuizID:    "quiz-1",
		Answers:   []int{1}, // second question never reached
		StartedAt: time.Now().Add(-45 * time.Minute),
	}
	require.NoError(t, fx.sessions.SaveProgress(context.Background(), session))

	submission, err := fx.service.SubmitAuto(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)

	require.Equal(t, constants.SubmissionStatusAutoSubmitted, submission.Status)
	require.Equal(t, 1, submission.AttemptNumber)
	require.Len(t, submission.Answers, 2)
	require.Equal(t, 1, submission.Answers[0].SelectedOption)
	require.Equal(t, -1, submission.Answers[1].SelectedOption)
	require.Equal(t, 1, submission.Score)

	stored, err := fx.sessions.LoadProgress(context.Background(), "student-1", "quiz-1")
	require.NoError(t, err)
	require.Nil(t, stored)

	require.Len(t, fx.sink.entries, 1)
	require.Equal(t, "Quiz auto-submitted", fx.sink.entries[0].NotificationTitle)
}

func TestSubmitAutoNumbersAttemptAfterExisting(t *testing.T) {
	fx := newAttemptFixture()

	started := time.Now().Add(-2 * time.Hour)
	_, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{0, 1}, started, started.Add(10*time.Minute), 1)
	require.NoError(t, err)

	session := &models.AttemptSession{
		StudentID: "student-1",
		QuizID:    "quiz-1",
		Answers:   []int{1, 0},
		StartedAt: time.Now().Add(-20 * time.Minute),
	}
	require.NoError(t, fx.sessions.SaveProgress(context.Background(), session))

	submission, err := fx.service.SubmitAuto(context.Background(), "quiz-1", fx.student)
	require.NoError(t, err)
	require.Equal(t, 2, submission.AttemptNumber)
	require.Equal(t, 100, submission.Percentage)
}

func TestGetSubmissionOwnerAndAdminOnly(t *testing.T) {
	fx := newAttemptFixture()

	started := time.Now().Add(-10 * time.Minute)
	submission, err := fx.service.SubmitManual(context.Background(), "quiz-1", fx.student, []int{1, 0}, started, started.Add(time.Minute), 1)
	require.NoError(t, err)

	got, err := fx.service.GetSubmission(context.Background(), submission.ID, fx.student)
	require.NoError(t, err)
	require.Equal(t, submission.ID, got.ID)

	_, err = fx.service.GetSubmission(context.Background(), submission.ID, models.Actor{ID: "admin-1", Role: constants.RoleAdmin})
	require.NoError(t, err)

	_, err = fx.service.GetSubmission(context.Background(), submission.ID, models.Actor{ID: "student-2", Role: constants.RoleStudent})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
