package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load board: %w", ErrNotFound), http.StatusNotFound},
		{"typed not found", NotFound("Board not found"), http.StatusNotFound},
		{"forbidden", Forbidden("Not authorized to update this board"), http.StatusForbidden},
		{"unauthorized", Unauthorized("Invalid credentials"), http.StatusUnauthorized},
		{"conflict", Conflict("Username already taken"), http.StatusBadRequest},
		{"invalid input", fmt.Errorf("bad tag: %w", ErrInvalidInput), http.StatusBadRequest},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", Unavailable("search is not configured"), http.StatusServiceUnavailable},
		{"custom code", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := fmt.Errorf("create post: %w", Forbidden("Thread is locked"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "Thread is locked", Message(err))
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "conflict", New(http.StatusBadRequest, "", ErrConflict).Error())
}
