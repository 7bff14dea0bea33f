package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Set("trace_id", "trace-1")

	HandleServiceError(c, err)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr, resp
}

func TestHandleServiceError_StatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrMissingRequiredFields, http.StatusBadRequest},
		{ErrInvalidDateRange, http.StatusBadRequest},
		{ErrStartDateInPast, http.StatusBadRequest},
		{fmt.Errorf("%w: Skiing", ErrUnknownInterest), http.StatusBadRequest},
		{ErrPlanNotFound, http.StatusNotFound},
		{&GenerationError{Cause: errors.New("boom")}, http.StatusBadGateway},
		{ErrDatabaseError, http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rr, resp := serveError(t, tc.err)
		assert.Equal(t, tc.code, rr.Code, tc.err.Error())
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "trace-1", resp.TraceID)
	}
}

func TestHandleServiceError_MissingFieldsMessage(t *testing.T) {
	_, resp := serveError(t, ErrMissingRequiredFields)
	assert.Equal(t, "Please fill in all required fields!", resp.Message)
}

func TestHandleServiceError_GenerationDetails(t *testing.T) {
	cause := fmt.Errorf("task plan_itinerary: %w", errors.New("openai: timeout"))
	_, resp := serveError(t, &GenerationError{Cause: cause})

	assert.Equal(t, "An error occurred while generating your travel plan: task plan_itinerary: openai: timeout", resp.Message)
	assert.Contains(t, resp.Details, "trip plan generation failed")
	assert.Contains(t, resp.Details, "openai: timeout")
}

func TestHandleServiceError_DetailsHidden(t *testing.T) {
	ExposeErrorDetails = false
	defer func() { ExposeErrorDetails = true }()

	_, resp := serveError(t, &GenerationError{Cause: errors.New("boom")})
	assert.Empty(t, resp.Details)
}

func TestGenerationError_Is(t *testing.T) {
	err := fmt.Errorf("service: %w", &GenerationError{Cause: errors.New("x")})
	assert.True(t, errors.Is(err, ErrPlanGenerationFailed))
	assert.False(t, errors.Is(err, ErrDatabaseError))
}
