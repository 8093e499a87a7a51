package handlers

import (
	"net/http"

	"quiz-system/internal/dto"
	"quiz-system/internal/middleware"
	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// CreateQuiz handles POST /quizzes (admin only).
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	actor := middleware.GetActor(c)

	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), req.ToModel(), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.QuizToDTO(quiz))
}

// UpdateQuiz handles PUT /quizzes/:id (admin only).
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	actor := middleware.GetActor(c)

	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz := req.ToModel()
	quiz.ID = c.Param("id")

	updated, err := h.quizService.Update(c.Request.Context(), quiz, actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuizToDTO(updated))
}

// DeleteQuiz handles DELETE /quizzes/:id (admin only).
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	actor := middleware.GetActor(c)

	if err := h.quizService.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// GetQuiz handles GET /quizzes/:id. Students receive the quiz without
// the answer key.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	actor := middleware.GetActor(c)

	quiz, err := h.quizService.GetByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuizToDTO(quiz))
}

// ListQuizzes handles GET /quizzes.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	actor := middleware.GetActor(c)

	quizzes, err := h.quizService.ListForActor(c.Request.Context(), actor)
	if err != nil {
		dto.JsonAppError(c, err)
		return
	}

	response := dto.QuizListResponse{Quizzes: make([]dto.QuizDTO, len(quizzes))}
	for i, quiz := range quizzes {
		response.Quizzes[i] = dto.QuizToDTO(quiz)
	}

	c.JSON(http.StatusOK, response)
}

// AssignStudents handles POST /quizzes/:id/assignments (admin only).
func (h *QuizHandler) AssignStudents(c *gin.Context) {
	actor := middleware.GetActor(c)

	var req dto.AssignStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.quizService.AssignStudents(c.Request.Context(), c.Param("id"), req.StudentIDs, actor); err != nil {
		dto.JsonAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Students assigned"})
}
