package worker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type task func()

const queueSize = 1024

// Pool runs submitted tasks on a fixed set of goroutines. Stop waits for the
// queue to drain.
type Pool struct {
	wg    sync.WaitGroup
	jobs  chan task
	depth prometheus.Gauge

	mu      sync.RWMutex
	stopped bool
}

// NewPool starts n workers. depth, when non-nil, tracks the queue length.
func NewPool(n int, depth prometheus.Gauge) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan task, queueSize), depth: depth}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.track(-1)
				job()
			}
		}()
	}
	return p
}

// Submit queues f. It reports false if the pool is already stopped.
func (p *Pool) Submit(f task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	p.track(1)
	p.jobs <- f
	return true
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) track(delta float64) {
	if p.depth != nil {
		p.depth.Add(delta)
	}
}
