package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	"TradePulse/internal/handler/api"
	"TradePulse/internal/usecase"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	applogger "TradePulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	registry  *engine.Registry
	watchlist *usecase.Watchlist
	collector *usecase.TickCollector // websocket ingest, nil for kafka
	consumer  *pkgkafka.Consumer     // kafka ingest, nil for websocket
	kh        pkgkafka.MessageHandler
	handler   *api.Handler
	pub       domrepo.Publisher
	store     domrepo.BarStore

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	registry *engine.Registry,
	watchlist *usecase.Watchlist,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	handler *api.Handler,
	pub domrepo.Publisher,
	store domrepo.BarStore,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		watchlist: watchlist,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		handler:   handler,
		pub:       pub,
		store:     store,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.log, time.Second),
	)

	// Seed the watchlist; lanes bootstrap from the bar store before the
	// first live tick arrives.
	intervals := make([]models.Interval, 0, len(a.cfg.Watchlist.Intervals))
	for _, iv := range a.cfg.Watchlist.Intervals {
		intervals = append(intervals, models.NormalizeInterval(iv))
	}
	if len(intervals) == 0 {
		intervals = []models.Interval{models.Interval5m}
	}
	a.watchlist.Seed(ctx, a.cfg.Watchlist.Symbols, intervals)

	// Start ingest
	switch {
	case a.collector != nil:
		a.watchlist.OnAdd(a.collector.Subscribe)
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("collector start error", applogger.Error(err))
			return err
		}
		a.log.Info("collector started", applogger.Strings("symbols", a.cfg.Watchlist.Symbols))
	case a.consumer != nil && a.kh != nil:
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("collector stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop lanes after ingest; live bars flush to the store on stop.
	a.registry.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("bar store close error", applogger.Error(err))
		}
	}

	a.log.RemoveCollector()
	a.log.Info("shutdown complete")
	return nil
}
