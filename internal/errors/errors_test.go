package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := Validation("title is required")
	assert.Equal(t, "title is required", err.Error())

	wrapped := Wrap(errors.New("connection refused"), ErrCodeUnavailable, "store unavailable")
	assert.Equal(t, "store unavailable: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")

	require.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matches func(error) bool
	}{
		{"authentication", Authentication("no identity"), IsAuthentication},
		{"authorization", Authorization("role insufficient"), IsAuthorization},
		{"resolution", Resolution("lookup failed"), IsResolution},
		{"validation", Validation("bad input"), IsValidation},
		{"not_found", NotFound("missing"), IsNotFound},
		{"conflict", Conflict("duplicate"), IsConflict},
		{"unavailable", Wrap(errors.New("x"), ErrCodeUnavailable, "down"), IsUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.matches(tt.err))
			assert.False(t, tt.matches(errors.New("plain")))
		})
	}
}

func TestCodePredicates_ThroughWrapping(t *testing.T) {
	// Predicates must see through fmt.Errorf wrapping.
	inner := Authorization("role insufficient")
	outer := fmt.Errorf("handling request: %w", inner)

	assert.True(t, IsAuthorization(outer))
	assert.False(t, IsAuthentication(outer))
}

func TestGetCodeAndField(t *testing.T) {
	err := ValidationField("title", "title is required")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "title", GetField(err))

	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}
