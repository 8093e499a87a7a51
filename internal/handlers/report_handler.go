package handlers

import (
	"net/http"
	"strconv"

	"quiz-system/internal/dto"
	"quiz-system/internal/middleware"
	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// StudentReport handles GET /reports/students/:id.
func (h *ReportHandler) StudentReport(c *gin.Context) {
	actor := middleware.GetActor(c)

	report, err := h.reportService.StudentReport(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Gradebook handles GET /reports/students/:id/gradebook.
func (h *ReportHandler) Gradebook(c *gin.Context) {
	actor := middleware.GetActor(c)

	entries, err := h.reportService.Gradebook(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gradebook": entries})
}

// RecentActivity handles GET /reports/activity?limit= (admin only).
func (h *ReportHandler) RecentActivity(c *gin.Context) {
	actor := middleware.GetActor(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	activities, err := h.reportService.RecentActivity(c.Request.Context(), limit, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// QuizReport handles GET /reports/quizzes/:id (admin only).
func (h *ReportHandler) QuizReport(c *gin.Context) {
	actor := middleware.GetActor(c)

	report, err := h.reportService.QuizReport(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// QuizSubmissions handles GET /reports/quizzes/:id/submissions (admin only).
func (h *ReportHandler) QuizSubmissions(c *gin.Context) {
	actor := middleware.GetActor(c)

	submissions, err := h.reportService.QuizSubmissions(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	response := make([]dto.SubmissionResponse, len(submissions))
	for i, submission := range submissions {
		response[i] = dto.SubmissionToResponse(submission)
	}

	c.JSON(http.StatusOK, gin.H{"submissions": response})
}

// Overview handles GET /reports/overview (admin only).
func (h *ReportHandler) Overview(c *gin.Context) {
	actor := middleware.GetActor(c)

	report, err := h.reportService.Overview(c.Request.Context(), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
