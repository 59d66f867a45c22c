package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityInfo     = "info"
)

// OpsEventPayload captures the canonical data we emit for operational
// notifications: background worker failures and noteworthy sweep outcomes.
type OpsEventPayload struct {
	Worker     string
	Summary    string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming operational events.
type Sink interface {
	SendOpsEvent(ctx context.Context, payload OpsEventPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload OpsEventPayload) error

// SendOpsEvent implements the Sink interface.
func (f SinkFunc) SendOpsEvent(ctx context.Context, payload OpsEventPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
