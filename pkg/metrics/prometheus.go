package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds Prometheus collectors for the tick pipeline.
type Recorder struct {
	ticksTotal        *prometheus.CounterVec
	ticksDroppedTotal *prometheus.CounterVec
	barsSealedTotal   *prometheus.CounterVec
	signalsTotal      *prometheus.CounterVec
	predictionsTotal  *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	lastPrice         *prometheus.GaugeVec
	latencySeconds    *prometheus.HistogramVec
	laneStale         *prometheus.GaugeVec
}

// NewRecorder creates and registers all collectors with the default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		ticksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_ticks_total",
			Help: "Total number of ticks accepted into the pipeline",
		}, []string{"symbol"}),
		ticksDroppedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_ticks_dropped_total",
			Help: "Total number of ticks rejected before aggregation",
		}, []string{"reason"}),
		barsSealedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_bars_sealed_total",
			Help: "Total number of bars sealed per lane",
		}, []string{"symbol", "interval"}),
		signalsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_signals_total",
			Help: "Total number of strategy signals emitted",
		}, []string{"strategy", "side"}),
		predictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_predictions_total",
			Help: "Total number of predictions served",
		}, []string{"direction"}),
		errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tradepulse_errors_total",
			Help: "Total number of errors by type",
		}, []string{"type"}),
		lastPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tradepulse_last_price",
			Help: "Last observed trade price per symbol",
		}, []string{"symbol"}),
		latencySeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradepulse_operation_duration_seconds",
			Help:    "Duration of pipeline operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		laneStale: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tradepulse_lane_stale",
			Help: "1 when a lane stopped receiving ticks during market hours",
		}, []string{"lane"}),
	}
}

func (r *Recorder) RecordTick(symbol string) {
	r.ticksTotal.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordTickDropped(reason string) {
	r.ticksDroppedTotal.WithLabelValues(reason).Inc()
}

func (r *Recorder) RecordBarSealed(symbol, interval string) {
	r.barsSealedTotal.WithLabelValues(symbol, interval).Inc()
}

func (r *Recorder) RecordSignal(strategy, side string) {
	r.signalsTotal.WithLabelValues(strategy, side).Inc()
}

func (r *Recorder) RecordPrediction(direction string) {
	r.predictionsTotal.WithLabelValues(direction).Inc()
}

func (r *Recorder) RecordError(errorType string) {
	r.errorsTotal.WithLabelValues(errorType).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordLatency(operation string, seconds float64) {
	r.latencySeconds.WithLabelValues(operation).Observe(seconds)
}

func (r *Recorder) SetLaneStale(lane string, stale bool) {
	v := 0.0
	if stale {
		v = 1.0
	}
	r.laneStale.WithLabelValues(lane).Set(v)
}
