package middleware

import (
	"context"
	"fmt"
	"sync"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/service/ratelimit"
)

// Dispatcher is the minimal downstream the pipeline needs.
type Dispatcher interface {
	Dispatch(t *models.Tick)
}

// TickPipeline sits between the ingest path and the lane registry. It
// validates, throttles per symbol, and decouples ingest from lane work
// through a buffered channel with a single drainer.
type TickPipeline struct {
	dispatcher Dispatcher
	metrics    domrepo.Metrics
	maxRPS     int
	bufSize    int
	bufCh      chan *models.Tick
	stopCh     chan struct{}
	started    bool
	mu         sync.Mutex
	limiter    *ratelimit.Limiter // per-symbol token buckets
}

type PipelineOption func(*TickPipeline)

// WithMaxRPS sets the max ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *TickPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the channel buffer between ingest and the lanes.
func WithBufferSize(n int) PipelineOption {
	return func(p *TickPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

func NewTickPipeline(dispatcher Dispatcher, metrics domrepo.Metrics, opts ...PipelineOption) *TickPipeline {
	p := &TickPipeline{
		dispatcher: dispatcher,
		metrics:    metrics,
		maxRPS:     20,   // default throttle per symbol
		bufSize:    1000, // default buffer
		stopCh:     make(chan struct{}),
		limiter:    ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Tick, p.bufSize)
	return p
}

// Start launches the drainer feeding the lane registry.
func (p *TickPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case t := <-p.bufCh:
				if t == nil {
					continue
				}
				p.dispatcher.Dispatch(t)
			}
		}
	}()
}

// Stop halts the drainer. Buffered ticks are discarded.
func (p *TickPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles one tick, then hands it to the drainer.
// Malformed ticks are rejected with a tagged reason; the stream continues.
func (p *TickPipeline) Process(ctx context.Context, t *models.Tick) error {
	if reason, err := validateTick(t); err != nil {
		p.metrics.RecordTickDropped(reason)
		return err
	}
	if !p.allow(t.Symbol) {
		// throttled; record and drop silently
		p.metrics.RecordTickDropped("throttle")
		return nil
	}

	select {
	case p.bufCh <- t:
	default:
		p.metrics.RecordTickDropped("buffer_full")
	}
	return nil
}

func validateTick(t *models.Tick) (string, error) {
	if t == nil {
		return "nil", fmt.Errorf("tick nil")
	}
	if t.Symbol == "" {
		return "empty_symbol", fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return "bad_timestamp", fmt.Errorf("timestamp invalid")
	}
	if t.Price <= 0 {
		return "bad_price", fmt.Errorf("price invalid")
	}
	if t.Volume < 0 {
		return "negative_volume", fmt.Errorf("negative volume")
	}
	return "", nil
}

func (p *TickPipeline) allow(symbol string) bool {
	if p.maxRPS <= 0 {
		return true
	}
	return p.limiter.Allow(symbol, float64(p.maxRPS), float64(p.maxRPS))
}
