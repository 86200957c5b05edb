package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	completiondomain "github.com/sielsystems/acumulus/internal/completion/domain"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
	"github.com/sielsystems/acumulus/pkg/entity"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) ValidationErrors {
	return ValidationErrors{Errors: []ValidationError{{
		Field:   field,
		Code:    code,
		Message: message,
	}}}
}

func mapError(err error) (int, errorPayload) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: "invalid request",
			Errors:  verrs.Errors,
		}
	}

	switch {
	case errors.Is(err, completiondomain.ErrNilInvoice),
		errors.Is(err, entity.ErrUnknownProperty),
		errors.Is(err, entity.ErrWrongKind),
		errors.Is(err, entity.ErrValueNotAllowed),
		errors.Is(err, entity.ErrRequiredMissing),
		errors.Is(err, vatratedomain.ErrInvalidCountry),
		errors.Is(err, vatratedomain.ErrInvalidKind),
		errors.Is(err, vatratedomain.ErrInvalidPercentage),
		errors.Is(err, vatratedomain.ErrInvalidPeriod):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, vatratedomain.ErrAlreadyExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal error",
		}
	}
}
