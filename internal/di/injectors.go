//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"protostats/internal"
	"protostats/internal/analytics"
	"protostats/internal/catalog"
	"protostats/internal/controllers"
	"protostats/internal/providers"
	"protostats/internal/scheduler"
	"protostats/internal/services"
	"protostats/internal/snapshot"
	"protostats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewZstdCompressor,
		snapshot.NewStore,
		wire.Bind(new(providers.SnapshotStats), new(*snapshot.Store)),
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		catalog.NewClient,
		analytics.NewAnalyzer,
		services.NewAnalysisService,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
