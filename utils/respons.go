package utils

import (
	"errors"
	"net/http"

	"github.com/amorty/cafe-admin/models"
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		dup   *models.DuplicateKeyError
		nf    *models.NotFoundError
		verr  *models.ValidationError
		perr  *models.ParseError
		store *models.StorageUnavailableError
	)
	switch {
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &verr), errors.As(err, &perr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &store):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrNoPermission):
		return http.StatusForbidden
	case errors.Is(err, models.ErrTableNotFree), errors.Is(err, models.ErrDialogClosed):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidLogin),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrTokenRevoked),
		errors.Is(err, models.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrEmptyCustomer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RespondAppError writes err with the status StatusFor picks. Server errors
// are logged.
func RespondAppError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		ErrorLogger.WithField("path", c.FullPath()).Errorf("Request failed: %v", err)
	}
	RespondError(c, code, err)
}
