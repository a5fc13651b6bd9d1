package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("fetch ledger entries", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "app error", err: ErrNotFound, wantCode: http.StatusNotFound},
		{name: "wrapped app error", err: errors.Join(errors.New("ctx"), NewBadRequestError("bad")), wantCode: http.StatusBadRequest},
		{name: "plain error", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, GetAppError(tt.err).Code)
		})
	}
}
