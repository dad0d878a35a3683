package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

func TestMetrics_RecordsGenerations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	e := New(WithSource(random.NewSeeded(31)), WithMetrics(m))

	ok := mustSettings(t, []rule.Rule{rule.NumberRangeAll(5, 5)}, 2)
	res := e.Generate(ok)
	require.Equal(t, StatusSuccess, res.Status())

	impossible := mustSettings(t, []rule.Rule{rule.NoDuplicate(), rule.NumberRangeAll(1, 1)}, 2,
		rule.WithMaxAttempts(20), rule.WithErrorThreshold(3))
	res = e.Generate(impossible)
	require.Equal(t, StatusFailed, res.Status())

	e.Generate(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("Success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("Failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("BadRequest")))
	assert.Equal(t, float64(len(res.Resets())), testutil.ToFloat64(m.ResetsTotal))
	assert.Greater(t, testutil.ToFloat64(m.ResetsTotal), 0.0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	// BadRequest generations are not observed in the attempts histogram
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "randseq_engine_attempts" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), samples)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(&Result{status: StatusSuccess, attempts: 1})
	})
}
