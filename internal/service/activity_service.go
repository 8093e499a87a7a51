package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"quiz-system/internal/models"
)

const submittedQueue = "quiz.submitted"

type RabbitMQPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type ActivityWriter interface {
	CreateActivity(ctx context.Context, activity *models.ActivityLog) error
}

type NotificationWriter interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// LogEntry is one fire-and-forget record: an activity line, an optional
// in-app notification for the target user, and an event on the queue.
type LogEntry struct {
	Action              string
	Description         string
	PerformedBy         string
	TargetUser          string
	TargetQuiz          string
	NotificationType    string
	NotificationTitle   string
	NotificationMessage string
}

// ActivityService is the sink the attempt orchestrator emits into.
// Nothing here may fail a caller: every error is logged and dropped,
// because submission durability always outranks notification delivery.
type ActivityService struct {
	activityRepo     ActivityWriter
	notificationRepo NotificationWriter
	mqPublisher      RabbitMQPublisher
}

func NewActivityService(
	activityRepo ActivityWriter,
	notificationRepo NotificationWriter,
	mqPublisher RabbitMQPublisher,
) *ActivityService {
	return &ActivityService{
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		mqPublisher:      mqPublisher,
	}
}

func (s *ActivityService) LogAndNotify(ctx context.Context, entry LogEntry) {
	activity := &models.ActivityLog{
		Action:      entry.Action,
		Description: entry.Description,
		PerformedBy: entry.PerformedBy,
		TargetUser:  entry.TargetUser,
		TargetQuiz:  entry.TargetQuiz,
	}
	if err := s.activityRepo.CreateActivity(ctx, activity); err != nil {
		log.Printf("Failed to create activity log: %v", err)
	}

	if entry.TargetUser != "" && entry.NotificationTitle != "" {
		notification := &models.Notification{
			UserID:  entry.TargetUser,
			Type:    entry.NotificationType,
			Title:   entry.NotificationTitle,
			Content: entry.NotificationMessage,
		}
		if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
			log.Printf("Failed to create notification for user %s: %v", entry.TargetUser, err)
		}
	}

	s.publishEvent(ctx, entry)
}

func (s *ActivityService) publishEvent(ctx context.Context, entry LogEntry) {
	if s.mqPublisher == nil {
		return
	}

	type ActivityEvent struct {
		Action      string `json:"action"`
		Description string `json:"description"`
		PerformedBy string `json:"performed_by"`
		TargetUser  string `json:"target_user,omitempty"`
		TargetQuiz  string `json:"target_quiz,omitempty"`
		OccurredAt  string `json:"occurred_at"`
	}

	event := ActivityEvent{
		Action:      entry.Action,
		Description: entry.Description,
		PerformedBy: entry.PerformedBy,
		TargetUser:  entry.TargetUser,
		TargetQuiz:  entry.TargetQuiz,
		OccurredAt:  time.Now().Format(time.RFC3339),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal activity event: %v", err)
		return
	}

	if err := s.mqPublisher.Publish(ctx, submittedQueue, eventJSON); err != nil {
		log.Printf("Failed to publish activity event: %v", err)
	}
}
