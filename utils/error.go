package utils

import (
	"errors"
	"net/http"

	"fastpark/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFor maps parking errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSpotNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSpotUnavailable),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrNoSession),
		errors.Is(err, models.ErrNoSummary):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ParkingError writes err with the status StatusFor picks. Validation
// failures carry the offending field.
func ParkingError(c *gin.Context, err error) {
	status := StatusFor(err)
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		GetLogger().Warn("Validation failed", zap.String("field", ve.Field), zap.String("details", ve.Message))
		c.JSON(status, ErrorResponse{Message: "Validation failed", Field: ve.Field, Details: ve.Message})
		return
	}
	if status == http.StatusInternalServerError {
		JSONError(c, status, "Internal Server Error", err.Error())
		return
	}
	JSONError(c, status, http.StatusText(status), err.Error())
}
