//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"clipkeep/internal"
	"clipkeep/internal/clip"
	"clipkeep/internal/controllers"
	"clipkeep/internal/events"
	"clipkeep/internal/persistence"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"
	"clipkeep/internal/structures"
	"clipkeep/internal/watcher"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		persistence.NewDocumentStore,
		persistence.NewWriteQueue,
		persistence.NewImageStore,
		persistence.NewZstdCompressor,
		events.NewBroadcaster,
		services.NewHistoryService,

		NewClipboardBackend,
		clip.NewKeystroker,
		watcher.NewPoller,
		wire.Bind(new(services.EchoSuppressor), new(*watcher.Poller)),
		wire.Bind(new(controllers.WatcherState), new(*watcher.Poller)),
		wire.Bind(new(watcher.PollerInterface), new(*watcher.Poller)),
		services.NewPasteService,

		controllers.NewHistoryController,
		controllers.NewPasteController,
		controllers.NewImageController,
		controllers.NewEventsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
