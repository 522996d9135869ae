package api

import (
	"time"

	models "TradePulse/internal/domain/models"
	"TradePulse/internal/engine"
	"TradePulse/internal/marketclock"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"
	xutil "TradePulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// Handler implements the Echo-based HTTP API following Clean Architecture.
type Handler struct {
	logger    *xlogger.Logger
	registry  *engine.Registry
	watchlist *usecase.Watchlist
	predict   *usecase.PredictUseCase
	chart     *usecase.ChartUseCase
	connected func() bool
	started   time.Time
}

func NewHandler(logger *xlogger.Logger, registry *engine.Registry,
	watchlist *usecase.Watchlist, predict *usecase.PredictUseCase,
	chart *usecase.ChartUseCase, connected func() bool) *Handler {
	return &Handler{
		logger:    logger,
		registry:  registry,
		watchlist: watchlist,
		predict:   predict,
		chart:     chart,
		connected: connected,
		started:   time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/status", h.Status)
	g.GET("/strategies", h.Strategies)
	g.GET("/watchlist", h.WatchlistList)
	g.POST("/watchlist", h.WatchlistAdd)
	g.DELETE("/watchlist/:symbol", h.WatchlistRemove)
	g.GET("/predict", h.Predict)
	g.GET("/signals", h.Signals)
	g.GET("/chart", h.Chart)
}

// Status reports stream health, active lanes, and which markets are open.
func (h *Handler) Status(c echo.Context) error {
	now := time.Now()
	sessions := make([]models.MarketSession, 0, len(marketclock.Exchanges()))
	for _, ex := range marketclock.Exchanges() {
		open, local := marketclock.Session(ex, now)
		sessions = append(sessions, models.MarketSession{Exchange: ex, IsOpen: open, LocalTime: local})
	}
	keys := h.registry.Keys()
	lanes := make([]string, 0, len(keys))
	for _, k := range keys {
		lanes = append(lanes, k.String())
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"stream_connected": h.connected(),
		"uptime_seconds":   int(time.Since(h.started).Seconds()),
		"lanes":            lanes,
		"markets":          sessions,
	})
}

// Strategies serves the built-in strategy catalog.
func (h *Handler) Strategies(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.Evaluator().Catalog())
}

func (h *Handler) WatchlistList(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.watchlist.List())
}

func (h *Handler) WatchlistAdd(c echo.Context) error {
	req := &models.WatchlistAddRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	iv := models.NormalizeInterval(req.Interval)
	if err := h.watchlist.Add(c.Request().Context(), req.Symbol, iv); err != nil {
		h.logger.Error("watchlist add error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, h.watchlist.List())
}

func (h *Handler) WatchlistRemove(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	h.watchlist.Remove(symbol)
	return xhttp.SuccessResponse(c, h.watchlist.List())
}

func (h *Handler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	iv := models.NormalizeInterval(req.Interval)

	res, err := h.predict.Predict(c.Request().Context(), req.Symbol, iv)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Signals serves the recent signal feed, newest first.
func (h *Handler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	signals := h.registry.Feed().Recent(req.Symbol, req.Limit)
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *Handler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	iv := models.NormalizeInterval(req.Interval)

	res, err := h.chart.Chart(req.Symbol, iv, req.N)
	if err != nil {
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), time.Time{})
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Time{})
	if !from.IsZero() || !to.IsZero() {
		from, to = xutil.AlignFromTo(from, to, string(iv))
		res.Clamp(from, to)
	}
	return xhttp.SuccessResponse(c, res)
}
