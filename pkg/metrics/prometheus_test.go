package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	rec.IncCounter("confirmed", map[string]string{LabelChain: "solana"})
	rec.IncCounter("confirmed", map[string]string{LabelChain: "solana"})
	rec.IncCounter("pending", map[string]string{LabelChain: "tron"})
	rec.ObserveLatency("lookup", 250*time.Millisecond, map[string]string{LabelChain: "solana"})

	assert.InDelta(t, 2, testutil.ToFloat64(rec.counters.WithLabelValues("confirmed", "solana")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.counters.WithLabelValues("pending", "tron")), 0)

	expected := `
# HELP wallet_core_events_total Transaction status events by type and chain
# TYPE wallet_core_events_total counter
wallet_core_events_total{chain="solana",type="confirmed"} 2
wallet_core_events_total{chain="tron",type="pending"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "wallet_core_events_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.histogram))
}

func Test_NewPrometheusRecorder_duplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	_, err = NewPrometheusRecorder(reg)
	require.Error(t, err)
}

func Test_NoopRecorder(t *testing.T) {
	t.Parallel()

	var rec Recorder = NoopRecorder{}
	rec.IncCounter("confirmed", nil)
	rec.ObserveLatency("lookup", time.Second, nil)
}
