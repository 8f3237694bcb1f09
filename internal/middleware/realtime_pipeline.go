package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	domrepo "FlowShift/internal/domain/repository"
)

// Sink is the downstream the pipeline forwards ticks to.
type Sink interface {
	Publish(ctx context.Context, t *domrepo.QuoteTick) error
}

// RealtimePipeline sits between the ticker and the quote publisher.
// It validates, throttles per symbol, and buffers while downstream is unavailable.
type RealtimePipeline struct {
	sink     Sink
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *domrepo.QuoteTick
	stopCh   chan struct{}
	stopOnce sync.Once
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
	backoff  time.Duration
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS sets the max ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the retry buffer size used when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithClock replaces the time source used for throttling.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *RealtimePipeline) { p.now = now }
}

// NewRealtimePipeline creates a new pipeline.
func NewRealtimePipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   10,
		bufSize:  500,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
		backoff:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *domrepo.QuoteTick, p.bufSize)
	return p
}

// Start launches background flushing of buffered ticks.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.flush(ctx)
}

func (p *RealtimePipeline) flush(ctx context.Context) {
	backoff := p.backoff
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case t := <-p.bufCh:
			if err := p.sink.Publish(ctx, t); err != nil {
				if backoff < 2*time.Second {
					backoff *= 2
				}
				p.metrics.RecordError("pipeline_flush")
				select {
				case <-time.After(backoff):
				case <-p.stopCh:
					return
				}
				select {
				case p.bufCh <- t:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
				continue
			}
			backoff = p.backoff
			p.metrics.RecordQuotePublished(t.Symbol)
		}
	}
}

// Stop stops the background flushing. Buffered ticks are dropped.
func (p *RealtimePipeline) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Buffered reports how many ticks wait for a retry.
func (p *RealtimePipeline) Buffered() int { return len(p.bufCh) }

// Process validates, throttles, and forwards a tick, buffering it on errors.
func (p *RealtimePipeline) Process(ctx context.Context, t *domrepo.QuoteTick) error {
	start := p.now()
	if err := validateTick(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(t.Symbol, start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Publish(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- t:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordQuotePublished(t.Symbol)
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTick(t *domrepo.QuoteTick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if math.IsNaN(t.Bid) || math.IsNaN(t.Ask) || math.IsInf(t.Bid, 0) || math.IsInf(t.Ask, 0) {
		return fmt.Errorf("price not finite")
	}
	if t.Ask < t.Bid {
		return fmt.Errorf("ask below bid")
	}
	return nil
}

// allow admits at most maxRPS ticks per second for symbol.
func (p *RealtimePipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if !last.IsZero() && now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
