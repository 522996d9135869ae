package models

// Requests for the analytics HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"5m" validate:"oneof=1m 5m 15m 1h 1d"`
}

type ChartRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"5m" validate:"oneof=1m 5m 15m 1h 1d"`
	N        int    `query:"n" json:"n" default:"100" validate:"gte=1,lte=250"`
}

type SignalsRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=200"`
}

type WatchlistAddRequest struct {
	Symbol   string `json:"symbol" validate:"required,min=1,max=20"`
	Interval string `json:"interval" default:"5m" validate:"oneof=1m 5m 15m 1h 1d"`
}
