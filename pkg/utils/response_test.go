package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SendValidationError(c, "Invalid request body", "num_trials must be positive")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "num_trials must be positive", resp.Error.Details)
}

func TestSendSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SendSuccess(c, map[string]int{"trials": 10000})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"trials":10000}}`, rec.Body.String())
}

func TestAppError(t *testing.T) {
	err := NewAppError(ErrCodeNotFound, "Evaluation not found")
	assert.Equal(t, "NOT_FOUND: Evaluation not found", err.Error())

	err = NewAppError(ErrCodeValidation, "bad", "detail")
	assert.Equal(t, "VALIDATION_ERROR: bad (detail)", err.Error())
}
