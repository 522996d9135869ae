package engine

import (
	"sync"

	"TradePulse/internal/domain/models"
)

// DefaultFeedSize bounds the in-memory signal history.
const DefaultFeedSize = 200

// Feed is a bounded ring of the most recent signals across all lanes,
// newest first. Safe for concurrent use.
type Feed struct {
	mu   sync.RWMutex
	buf  []*models.Signal
	size int
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Add(s *models.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = append(f.buf, s)
	if len(f.buf) > f.size {
		f.buf = f.buf[len(f.buf)-f.size:]
	}
}

// Recent returns up to limit signals, newest first, optionally filtered by
// symbol. Empty symbol matches everything.
func (f *Feed) Recent(symbol string, limit int) []*models.Signal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if limit <= 0 || limit > f.size {
		limit = f.size
	}
	out := make([]*models.Signal, 0, limit)
	for i := len(f.buf) - 1; i >= 0 && len(out) < limit; i-- {
		if symbol != "" && f.buf[i].Symbol != symbol {
			continue
		}
		out = append(out, f.buf[i])
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.buf)
}
