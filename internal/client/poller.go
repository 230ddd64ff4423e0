package client

import (
	"context"
	"sync"
	"time"
)

// Poller drives a recurring tick at a fixed cadence until the tick asks to
// stop or Stop is called. Ticks never overlap: the loop runs them one at a
// time on a single goroutine, and the ticker drops ticks that come due
// while the previous one is still processing.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller builds a poller calling tick every interval. The tick returns
// false to cancel the loop from inside.
func NewPoller(interval time.Duration, tick func(ctx context.Context) bool) *Poller {
	return &Poller{
		interval: interval,
		tick:     tick,
	}
}

// Start launches the loop. Starting a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First tick fires immediately so a fresh watcher is not a full
	// interval behind.
	if !p.tick(ctx) {
		p.markStopped()
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.tick(ctx) {
				p.markStopped()
				return
			}
		}
	}
}

// Stop cancels the loop and waits for the in-flight tick, if any, to
// finish. Stopping a stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) markStopped() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.done = nil
	}
	p.mu.Unlock()
}

// Running reports whether the loop is live.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
