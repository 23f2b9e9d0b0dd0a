// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/logger"
)

// APIError is an error the HTTP boundary knows how to render.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string { return e.Detail }

// Map converts repo/infra errors into APIErrors.
// Keeps service layer clean by centralizing error mapping. Raw storage error
// text is never put in the response body; callers log it instead.
func Map(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &APIError{Status: http.StatusNotFound, Detail: "record not found"}

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &APIError{Status: http.StatusConflict, Detail: "record already exists"}

	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Status: http.StatusGatewayTimeout, Detail: "request timed out"}

	case errors.Is(err, context.Canceled):
		return &APIError{Status: http.StatusServiceUnavailable, Detail: "request was canceled"}

	default:
		return &APIError{Status: http.StatusInternalServerError, Detail: "internal server error"}
	}
}

// JSON maps err and writes it as a {"detail": ...} body, logging the
// underlying error when it is an unexpected one.
func JSON(c *gin.Context, err error) {
	apiErr := Map(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"detail": apiErr.Detail})
}

// NotFound creates a 404 error with a custom detail message.
func NotFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Detail: msg}
}

// InvalidArgument creates a 422 error for bad input.
// Use this in service layer for input validation.
func InvalidArgument(msg string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Detail: msg}
}

// Conflict creates a 409 error.
func Conflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Detail: msg}
}
