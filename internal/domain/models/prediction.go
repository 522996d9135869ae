package models

import "time"

// PredictionDirection is the fused directional call.
type PredictionDirection string

const (
	DirectionBullish PredictionDirection = "BULLISH"
	DirectionBearish PredictionDirection = "BEARISH"
	DirectionNeutral PredictionDirection = "NEUTRAL"
)

// Prediction fuses the technical read with an external sentiment score.
// TechScore, SentimentScore and Combined all live in [-100, 100].
type Prediction struct {
	Symbol      string              `json:"symbol"`
	Interval    Interval            `json:"interval"`
	Direction   PredictionDirection `json:"direction"`
	Confidence  float64             `json:"confidence"`
	TechScore   float64             `json:"tech_score"`
	Sentiment   float64             `json:"sentiment_score"`
	Combined    float64             `json:"combined_score"`
	BullReasons []string            `json:"bull_reasons,omitempty"`
	BearReasons []string            `json:"bear_reasons,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// SentimentScore is one reading from the sentiment collaborator.
type SentimentScore struct {
	Symbol    string    `json:"symbol"`
	Score     float64   `json:"score"` // [-100, 100]
	Timestamp time.Time `json:"timestamp"`
}

// MarketSession is the market-clock view of one exchange at an instant.
type MarketSession struct {
	Exchange  string    `json:"exchange"`
	IsOpen    bool      `json:"is_open"`
	LocalTime time.Time `json:"local_time"`
}
