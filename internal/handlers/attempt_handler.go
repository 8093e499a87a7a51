package handlers

import (
	"net/http"
	"time"

	"quiz-system/internal/dto"
	"quiz-system/internal/middleware"
	"quiz-system/internal/models"
	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *service.AttemptService
}

func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
	}
}

// StartAttempt creates a fresh session for the quiz. POST /quizzes/:id/attempt
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	session, err := h.attemptService.Start(c.Request.Context(), quizID, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionToResponse(session))
}

// SaveProgress upserts the in-progress state. PUT /quizzes/:id/attempt
func (h *AttemptHandler) SaveProgress(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	var req dto.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := &models.AttemptSession{
		Answers:         req.Answers,
		Flagged:         req.Flagged,
		CurrentQuestion: req.CurrentQuestion,
		RemainingSec:    req.RemainingSec,
	}
	if req.StartedAt > 0 {
		session.StartedAt = time.Unix(req.StartedAt, 0)
	}

	if err := h.attemptService.SaveProgress(c.Request.Context(), quizID, actor, session); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionToResponse(session))
}

// LoadProgress returns the saved session, 404 when none exists.
// GET /quizzes/:id/attempt
func (h *AttemptHandler) LoadProgress(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	session, err := h.attemptService.LoadProgress(c.Request.Context(), quizID, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}
	if session == nil {
		dto.JsonError(c, http.StatusNotFound, "No saved progress")
		return
	}

	c.JSON(http.StatusOK, dto.SessionToResponse(session))
}

// ClearProgress deletes the session. DELETE /quizzes/:id/attempt
func (h *AttemptHandler) ClearProgress(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	if err := h.attemptService.ClearProgress(c.Request.Context(), quizID, actor); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Progress cleared"})
}

// Submit grades a manual submission. POST /quizzes/:id/submit
func (h *AttemptHandler) Submit(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := h.attemptService.SubmitManual(
		c.Request.Context(),
		quizID,
		actor,
		req.Answers,
		time.Unix(req.TimeStarted, 0),
		time.Unix(req.TimeCompleted, 0),
		req.AttemptNumber,
	)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionToResponse(submission))
}

// AutoSubmit grades the saved session when time runs out.
// POST /quizzes/:id/auto-submit
func (h *AttemptHandler) AutoSubmit(c *gin.Context) {
	actor := middleware.GetActor(c)
	quizID := c.Param("id")

	submission, err := h.attemptService.SubmitAuto(c.Request.Context(), quizID, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionToResponse(submission))
}

// GetSubmission returns a single detailed result. GET /submissions/:id
func (h *AttemptHandler) GetSubmission(c *gin.Context) {
	actor := middleware.GetActor(c)
	submissionID := c.Param("id")

	submission, err := h.attemptService.GetSubmission(c.Request.Context(), submissionID, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionToResponse(submission))
}
