package errors

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error uses code", err: apperrors.NotFound("room missing"), want: "not_found"},
		{name: "wrapped app error keeps code", err: fmt.Errorf("sweep: %w", apperrors.Conflict("dup")), want: "conflict"},
		{name: "plain error falls back to type", err: fmt.Errorf("boom"), want: "errors_errorstring"},
		{name: "net error", err: &net.OpError{Op: "dial"}, want: "net_operror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyUnwrapsToInnermost(t *testing.T) {
	inner := &net.OpError{Op: "read"}
	err := fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", inner))

	assert.Equal(t, "net_operror", Classify(err))
}
