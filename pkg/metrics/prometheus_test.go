package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordTick()
	r.RecordTick()
	r.RecordSeries("synthetic")
	r.RecordAdvisor("analyze", "fallback")
	r.RecordLastBid("XAUUSD", 2035.4)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.seriesGenerated.WithLabelValues("synthetic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.advisorRequests.WithLabelValues("analyze", "fallback")))
	assert.Equal(t, 2035.4, testutil.ToFloat64(r.lastBid.WithLabelValues("XAUUSD")))
}

func TestRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewWithRegisterer(reg)
	b := NewWithRegisterer(reg)

	a.RecordTick()
	b.RecordTick()
	assert.Equal(t, 2.0, testutil.ToFloat64(a.ticks))
}
