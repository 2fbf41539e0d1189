package internal

import (
	"net/http"

	"protostats/internal/controllers"
	"protostats/internal/providers"
	"protostats/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/analysis", http.HandlerFunc(apiController.GetAnalysis))
	routers.Get("/analysis/client", http.HandlerFunc(apiController.GetClientAnalysis))
	routers.Get("/records", http.HandlerFunc(apiController.GetRecords))
	routers.Get("/record", http.HandlerFunc(apiController.GetRecord))
	routers.Get("/record/random", http.HandlerFunc(apiController.GetRandomRecord))
	return routers
}
