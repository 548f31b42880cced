package api

import (
	_ "github.com/babylonchain/mesh-provider/docs"
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Get("/v1/config", registerHandler(handlers.GetProviderConfig))
	r.Get("/v1/validators", registerHandler(handlers.GetValidators))
	r.Get("/v1/validators/{address}", registerHandler(handlers.GetValidator))
	r.Get("/v1/accounts/{owner}", registerHandler(handlers.GetAccount))
	r.Get("/v1/packets/{sequence}", registerHandler(handlers.GetPacket))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
