package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Retry Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeGeocodeFailed, 3},
		{ErrCodeReminderSendFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeGeocodeTimeout, 2},
		{ErrCodeInvalidQueryType, 0},
		{ErrCodeReminderNotFound, 0},
		{ErrCodeDatasetValidationFailed, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retries > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

// ==========================
// BPMN Conversion Tests
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewQueryTimeoutError("services_nearby")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_TIMEOUT", bpmnErr.Code)
	assert.Equal(t, 2, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, "QUERY_TIMEOUT", bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestConvertToBPMNError_NonRetryableZeroesRetries(t *testing.T) {
	stdErr := NewInvalidQueryTypeError("bogus_query")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "INVALID_QUERY_TYPE", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnmappedCodePassesThrough(t *testing.T) {
	stdErr := NewBusinessRuleError("duplicate reminder", "reminder already scheduled")

	bpmnErr := ConvertToBPMNError(stdErr)

	require.NotEmpty(t, bpmnErr.Code)
	assert.Equal(t, string(stdErr.Code), bpmnErr.Code)
}

// ==========================
// Categorization Tests
// ==========================

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "GEOCODING", GetErrorCategory(ErrCodeGeocodeTimeout))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeReminderNotFound))
	assert.Equal(t, "ETL", GetErrorCategory(ErrCodeDatasetLoadFailed))
}

// ==========================
// Constructor Tests
// ==========================

func TestConstructorsCarryCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")

	err := NewDatabaseConnectionFailedError(cause)

	assert.Equal(t, ErrCodeDatabaseConnectionFailed, err.Code)
	assert.Contains(t, err.Details, "connection refused")
	assert.True(t, err.Retryable)
	assert.False(t, err.Timestamp.IsZero())
}
