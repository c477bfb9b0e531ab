package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockSense/internal/usecase"
	pkgch "StockSense/pkg/clickhouse"
	"StockSense/pkg/config"
	xhttp "StockSense/pkg/http"
	pkgkafka "StockSense/pkg/kafka"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/queue"
)

// App encapsulates the entire application lifecycle: the quote collector,
// the trade event consumer, the warmup queue worker, and the HTTP server.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	collector *usecase.QuoteCollector
	consumer  *pkgkafka.Consumer
	kh        pkgkafka.MessageHandler
	chClient  *pkgch.Client
	warmup    *queue.RedisQueue
	executor  *usecase.OrderExecutor

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	warmup *queue.RedisQueue,
	executor *usecase.OrderExecutor,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		collector:   collector,
		consumer:    consumer,
		kh:          kh,
		chClient:    chClient,
		warmup:      warmup,
		executor:    executor,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Quote collector keeps the board fresh; without it every trade fails
	// the freshness check once the last snapshots age out.
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("quote collector error", applogger.Error(err))
		}
	}()
	l.Info("quote collector started", applogger.Strings("symbols", a.cfg.MarketFeed.Symbols))

	// Consumer persists committed trade events when the kafka backend is on.
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Warmup worker precomputes sentiment composites for watched symbols.
	if a.warmup != nil {
		if err := a.warmup.Start(); err != nil {
			l.Warn("warmup queue start error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("quote collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.warmup != nil {
		if err := a.warmup.Stop(shutdownCtx); err != nil {
			l.Warn("warmup queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Executor owns the publisher and journal handles.
	if a.executor != nil {
		a.executor.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
