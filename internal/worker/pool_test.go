package worker

import (
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPool_StopDrainsQueue(t *testing.T) {
	depth := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_queue_depth"})
	p := NewPool(3, depth)

	var done atomic.Int64
	for i := 0; i < 200; i++ {
		assert.True(t, p.Submit(func() { done.Add(1) }))
	}
	p.Stop()

	assert.Equal(t, int64(200), done.Load())
	assert.Equal(t, float64(0), testutil.ToFloat64(depth))
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, nil)
	p.Stop()
	p.Stop()
	assert.False(t, p.Submit(func() {}))
}
