package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

type recordedMetric struct {
	kind  string
	name  string
	tags  map[string]string
	count int64
}

type recordingSink struct {
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "count", name: name, tags: tags, count: value})
}

func (s *recordingSink) Gauge(name string, _ float64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "gauge", name: name, tags: tags})
}

func (s *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{kind: "timing", name: name, tags: tags})
}

func (s *recordingSink) named(name string) *recordedMetric {
	for i := range s.metrics {
		if s.metrics[i].name == name {
			return &s.metrics[i]
		}
	}
	return nil
}

func TestEmitSweepSuccess(t *testing.T) {
	sink := &recordingSink{}

	EmitSweep(sink, SweepMetric{
		Worker:    "session_reaper",
		Result:    ResultSuccess,
		Processed: 7,
		Duration:  120 * time.Millisecond,
	})

	tick := sink.named("sweep.tick")
	require.NotNil(t, tick)
	assert.Equal(t, "session_reaper", tick.tags["worker"])
	assert.Equal(t, ResultSuccess, tick.tags["result"])

	processed := sink.named("sweep.processed")
	require.NotNil(t, processed)
	assert.Equal(t, int64(7), processed.count)

	require.NotNil(t, sink.named("sweep.duration"))
	require.NotNil(t, sink.named("sweep.last_success_epoch"))
}

func TestEmitSweepErrorTagsClass(t *testing.T) {
	sink := &recordingSink{}

	EmitSweep(sink, SweepMetric{
		Worker: "overdue_sweeper",
		Result: ResultError,
		Err:    apperrors.Internal("store exploded"),
	})

	tick := sink.named("sweep.tick")
	require.NotNil(t, tick)
	assert.Equal(t, "internal", tick.tags["error_class"])

	assert.Nil(t, sink.named("sweep.processed"))
	assert.Nil(t, sink.named("sweep.last_success_epoch"))
}

func TestEmitSweepNilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitSweep(nil, SweepMetric{Worker: "session_reaper", Result: ResultNoop})
	})
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	assert.Nil(t, CloneTags(map[string]string{}))

	src := map[string]string{"worker": "session_reaper"}
	out := CloneTags(src)
	assert.Equal(t, src, out)

	out["worker"] = "changed"
	assert.Equal(t, "session_reaper", src["worker"])
}
