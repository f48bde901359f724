package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_Retryable(t *testing.T) {
	stdErr := NewSupplyLoadFailedError("wealth", fmt.Errorf("connection refused"))
	stdErr.WithMetadata("segment", "wealth")

	bpmnErr := ConvertToBPMNError(stdErr)
	assert.Equal(t, "SUPPLY_LOAD_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "wealth", bpmnErr.ErrorVariables["segment"])
	assert.Equal(t, "SUPPLY_LOAD_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "Failed to load supply pool", vars["errorMessage"])
	assert.Contains(t, vars["errorDetails"], "connection refused")
}

func TestConvertToBPMNError_BusinessErrorHasNoRetries(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewIntroPolicyViolationError(`demand intro contains banned phrase "synergy"`))
	assert.Equal(t, "INTRO_POLICY_VIOLATION", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Zero(t, bpmnErr.Retries)
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewQueryTimeoutError("supply"))
	assert.Equal(t, ErrCodeQueryTimeout, AsStandardError(wrapped).Code)

	plain := AsStandardError(fmt.Errorf("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
	assert.Equal(t, "INTERNAL_ERROR", ConvertToBPMNError(plain).Code)
}

func TestRetryCountsAndCategories(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retries   int
		retryable bool
		category  string
	}{
		{ErrCodeSupplyCacheFailed, 3, true, "RECORDS"},
		{ErrCodeSearchQueryFailed, 3, true, "RECORDS"},
		{ErrCodeDatabaseConnectionFailed, 3, true, "DATABASE"},
		{ErrCodeQueryTimeout, 2, true, "DATABASE"},
		{ErrCodeIntroSendFailed, 3, true, "NOTIFICATION"},
		{ErrCodeSummaryPublishFailed, 3, true, "NOTIFICATION"},
		{ErrCodeInputParsingFailed, 0, false, "VALIDATION"},
		{ErrCodeValidationFailed, 0, false, "VALIDATION"},
		{ErrCodeBatchCancelled, 2, true, "BATCH"},
		{ErrCodeEngineUnavailable, 3, true, "ENGINE"},
		{ErrCodeEngineRejected, 0, false, "ENGINE"},
		{ErrCodeInternal, 0, false, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			assert.Equal(t, tt.category, GetErrorCategory(tt.code))
		})
	}
}

func TestStandardError_Message(t *testing.T) {
	err := NewBatchCancelledError(3, 10)
	assert.Equal(t, "StandardError[BATCH_CANCELLED]: Introduction batch cancelled", err.Error())
	assert.Equal(t, "processed 3 of 10 records", err.Details)
}
