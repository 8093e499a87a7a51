package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"
	"quiz-system/pkg/cache"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps at most one in-progress attempt per
// (student, quiz) pair in Redis. A single key per pair makes the
// uniqueness invariant structural: every save is an upsert on that key,
// last write wins.
type SessionStore struct {
	redisClient *cache.RedisClient
	ttl         time.Duration
}

func NewSessionStore(redisClient *cache.RedisClient, ttl time.Duration) *SessionStore {
	return &SessionStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func sessionKey(studentID, quizID string) string {
	return fmt.Sprintf("attempt:%s:%s", quizID, studentID)
}

func (s *SessionStore) SaveProgress(ctx context.Context, session *models.AttemptSession) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to marshal session", err)
	}

	key := sessionKey(session.StudentID, session.QuizID)
	if err := s.redisClient.Set(ctx, key, data, s.ttl); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to save session", err)
	}
	return nil
}

// LoadProgress returns nil when no session exists for the pair.
func (s *SessionStore) LoadProgress(ctx context.Context, studentID, quizID string) (*models.AttemptSession, error) {
	data, err := s.redisClient.Get(ctx, sessionKey(studentID, quizID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to load session", err)
	}

	session := &models.AttemptSession{}
	if err := json.Unmarshal([]byte(data), session); err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to unmarshal session", err)
	}
	return session, nil
}

// Clear deletes the session. Deleting a missing key is not an error.
func (s *SessionStore) Clear(ctx context.Context, studentID, quizID string) error {
	if err := s.redisClient.Delete(ctx, sessionKey(studentID, quizID)); err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to clear session", err)
	}
	return nil
}
