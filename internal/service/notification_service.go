package service

import (
	"context"
	"encoding/json"
	"log"

	"quiz-system/internal/constants"
	"quiz-system/internal/models"
	"quiz-system/internal/repository"
)

// NotificationService exposes the student-facing notification inbox
// and consumes activity events off the queue when the publisher runs in
// a separate process.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetNotifications(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	return s.repo.DeleteNotification(ctx, notificationID, userID)
}

// HandleActivityEvent materialises a queued activity event as an in-app
// notification for its target user. Wired as a RabbitMQ consumer on the
// quiz.submitted queue.
func (s *NotificationService) HandleActivityEvent(ctx context.Context, data []byte) error {
	var event struct {
		Action      string `json:"action"`
		Description string `json:"description"`
		TargetUser  string `json:"target_user"`
		TargetQuiz  string `json:"target_quiz"`
	}

	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	if event.TargetUser == "" {
		return nil
	}

	log.Printf("Processing %s event for user %s", event.Action, event.TargetUser)

	notification := &models.Notification{
		UserID:  event.TargetUser,
		Type:    constants.NotificationTypeQuizSubmitted,
		Title:   "Quiz activity",
		Content: event.Description,
	}
	return s.repo.CreateNotification(ctx, notification)
}
