package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quiz-system/internal/dto"
	"quiz-system/internal/middleware"
	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List handles GET /notifications?limit=&offset=.
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := h.notificationService.List(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	response := dto.NotificationListResponse{
		Notifications: make([]dto.NotificationDTO, len(notifications)),
		Total:         total,
	}
	for i, n := range notifications {
		response.Notifications[i] = dto.NotificationDTO{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// MarkAsRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor := middleware.GetActor(c)

	if err := h.notificationService.MarkAsRead(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// Delete handles DELETE /notifications/:id.
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor := middleware.GetActor(c)

	if err := h.notificationService.Delete(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
