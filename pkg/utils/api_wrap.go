package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Details string      `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ExposeErrorDetails controls whether HandleServiceError attaches the full
// error chain of a failed generation to the response.
var ExposeErrorDetails = true

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func respondErrorWithDetails(c *gin.Context, code int, message, details string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Details: details,
	})
}

// GenerationErrorMessage is the user facing message for a failed generation.
func GenerationErrorMessage(err error) string {
	cause := err
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		cause = genErr.Cause
	}
	return "An error occurred while generating your travel plan: " + cause.Error()
}

// ErrorChain renders every wrapped error on its own line, outermost first.
func ErrorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingRequiredFields):
		RespondError(c, http.StatusBadRequest, "Please fill in all required fields!")
	case errors.Is(err, ErrInvalidDateRange):
		RespondError(c, http.StatusBadRequest, "End date must not be earlier than start date")
	case errors.Is(err, ErrStartDateInPast):
		RespondError(c, http.StatusBadRequest, "Start date must not be in the past")
	case errors.Is(err, ErrUnknownInterest):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "No travel plan has been generated yet")
	case errors.Is(err, ErrPlanGenerationFailed):
		zap.L().Error("trip plan generation failed",
			zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		details := ""
		if ExposeErrorDetails {
			details = ErrorChain(err)
		}
		respondErrorWithDetails(c, http.StatusBadGateway, GenerationErrorMessage(err), details)
	case errors.Is(err, ErrExportFailed):
		zap.L().Error("export failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Could not export travel plan")
	case errors.Is(err, ErrDatabaseError), errors.Is(err, ErrCacheError):
		zap.L().Error("storage error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unknown error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
