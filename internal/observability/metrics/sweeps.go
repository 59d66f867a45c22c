package metrics

import (
	"time"

	obserrors "github.com/hosteldesk/hosteldesk/internal/observability/errors"
	"github.com/hosteldesk/hosteldesk/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// SweepMetric captures details about one background sweep tick for metric
// emission. Worker names the loop ("session_reaper", "overdue_sweeper").
type SweepMetric struct {
	Worker    string
	Result    string
	Processed int
	Duration  time.Duration
	Err       error
}

// EmitSweep emits standardised background sweep metrics.
func EmitSweep(sink statsd.Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"worker": in.Worker,
		"result": in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("sweep.tick", 1, tags)

	if in.Processed > 0 {
		sink.Count("sweep.processed", int64(in.Processed), tags)
	}

	if in.Duration > 0 {
		sink.Timing("sweep.duration", in.Duration, CloneTags(tags))
	}

	if in.Err == nil {
		sink.Gauge("sweep.last_success_epoch", float64(time.Now().Unix()), map[string]string{"worker": in.Worker})
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty maps.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
