package repository

import (
	"context"
	"database/sql"
	"fmt"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
)

// Schema returns the DDL for the bars table, applied idempotently on boot.
func Schema(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		symbol     LowCardinality(String),
		interval   LowCardinality(String),
		open_time  DateTime64(3, 'UTC'),
		open       Float64,
		high       Float64,
		low        Float64,
		close      Float64,
		volume     Float64
	) ENGINE = ReplacingMergeTree
	PARTITION BY toYYYYMM(open_time)
	ORDER BY (symbol, interval, open_time)`, table)}
}

// ClickHouseBarStore persists sealed bars. Indicator state is never stored;
// lanes rebuild it by replaying the bootstrap window.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

func NewClickHouseBarStore(db *sql.DB, table string) repository.BarStore {
	return &ClickHouseBarStore{db: db, table: table}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseBarStore) Append(ctx context.Context, key models.SymbolKey, bar models.Bar) error {
	q := fmt.Sprintf("INSERT INTO %s (symbol, interval, open_time, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		key.Symbol,
		string(key.Interval),
		bar.OpenTime,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.Volume,
	)
	if err != nil {
		return fmt.Errorf("append bar %s: %w", key, err)
	}
	return nil
}

// LoadRecent returns up to n sealed bars for the key, oldest first.
func (s *ClickHouseBarStore) LoadRecent(ctx context.Context, key models.SymbolKey, n int) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT open_time, open, high, low, close, volume FROM %s WHERE symbol = ? AND interval = ? ORDER BY open_time DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, key.Symbol, string(key.Interval), n)
	if err != nil {
		return nil, fmt.Errorf("load bars %s: %w", key, err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.OpenTime, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.OpenTime = b.OpenTime.UTC()
		b.Sealed = true
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Newest-first from the query; replay wants oldest-first.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // Managed by pkg
}
