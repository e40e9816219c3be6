package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"clipkeep/internal/controllers"
	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"
	"clipkeep/internal/structures"
	"clipkeep/internal/watcher"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server

	conf   *structures.Config
	logger providers.Logger
	queue  interfaces.WriteQueueInterface
	poller watcher.PollerInterface
	paste  services.PasteServiceInterface

	// cancels request contexts so open event streams end on shutdown
	cancelRequests context.CancelFunc
}

// NewApp loads the history and assembles the HTTP server. Nothing is started
// until Run.
func NewApp(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, router providers.RouterProviderInterface, healthController *controllers.HealthController, queue interfaces.WriteQueueInterface, poller watcher.PollerInterface, paste services.PasteServiceInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := queue.Open(); err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	api := providers.LoggingMiddleware(logger, providers.MetricsMiddleware(metrics, router.Mux()))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.Handle("/", api)

	baseCtx, cancel := context.WithCancel(context.Background())
	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			BaseContext:  func(net.Listener) context.Context { return baseCtx },
		},
		conf:           conf,
		logger:         logger,
		queue:          queue,
		poller:         poller,
		paste:          paste,
		cancelRequests: cancel,
	}, nil
}

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	defer a.logger.Close()

	if a.conf.Watcher.Enabled {
		a.poller.Start()
	} else {
		a.logger.Infof(providers.TypeApp, "Clipboard watcher disabled")
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

// shutdown stops the watcher, the HTTP server and scheduled pastes, then
// closes the write queue so pending mutations still reach disk.
func (a *App) shutdown() error {
	a.poller.Stop()
	a.cancelRequests()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.WebServer.Shutdown(ctx)

	a.paste.Wait()
	a.queue.Close()
	return err
}
