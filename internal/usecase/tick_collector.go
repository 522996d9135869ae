package usecase

import (
	"context"

	"TradePulse/internal/domain/models"
	drepo "TradePulse/internal/domain/repository"
	mid "TradePulse/internal/middleware"
)

// TickCollector reads ticks from the market stream and feeds the pipeline.
type TickCollector struct {
	stream  drepo.MarketStream
	pipe    *mid.TickPipeline
	metrics drepo.Metrics
	symbols func() []string
}

// NewTickCollector creates a collector. symbols yields the current watch
// set so a (re)subscribe always covers every active lane.
func NewTickCollector(stream drepo.MarketStream, pipe *mid.TickPipeline, metrics drepo.Metrics, symbols func() []string) *TickCollector {
	return &TickCollector{stream: stream, pipe: pipe, metrics: metrics, symbols: symbols}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx, c.symbols()); err != nil {
		return err
	}
	c.pipe.Start(ctx)
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

// Subscribe adds a symbol to the live stream, e.g. after a watchlist add.
func (c *TickCollector) Subscribe(ctx context.Context, symbol string) error {
	return c.stream.Subscribe(ctx, []string{symbol})
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			_ = c.pipe.Process(ctx, t)
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
