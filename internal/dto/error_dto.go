package dto

import (
	"net/http"

	"quiz-system/internal/apperrors"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func JsonError(c *gin.Context, status int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

// JsonAppError maps a structured error kind to its HTTP status.
// Unknown errors surface as 500 without leaking internals.
func JsonAppError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound, apperrors.KindNoActiveSession:
		JsonError(c, http.StatusNotFound, err.Error())
	case apperrors.KindForbidden:
		JsonError(c, http.StatusForbidden, err.Error())
	case apperrors.KindAnswerCountMismatch, apperrors.KindInvalidTimeRange, apperrors.KindValidation:
		JsonError(c, http.StatusBadRequest, err.Error())
	case apperrors.KindConflict:
		JsonError(c, http.StatusConflict, err.Error())
	default:
		JsonError(c, http.StatusInternalServerError)
	}
}
