package response

import (
	"errors"
	"net/http"

	"lenormand-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned to clients. The message is always
// human-readable; internal details stay in the wrapped error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body for endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// OK sends a 200 response with data as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 response with a confirmation message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500 with a generic message.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
