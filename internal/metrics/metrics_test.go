package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := Default()
	assert.Same(t, m, Default())

	m.Operation("create", "success")
	m.Operation("create", "success")
	m.Operation("create", "conflict")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "conflict")))

	m.VIPLookup("degraded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.vipLookups.WithLabelValues("degraded")))

	before := testutil.ToFloat64(m.completed)
	m.Completed(3)
	m.Completed(0)
	assert.Equal(t, before+3, testutil.ToFloat64(m.completed))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Operation("cancel", "success")
		m.VIPLookup("hit")
		m.Completed(1)
	})
}
