package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/lstlabs/lst-staking-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/networks", registerHandler(handlers.GetNetworks))
		r.Get("/jobs/{id}", registerHandler(handlers.GetJob))

		r.Route("/networks/{network}", func(r chi.Router) {
			r.Get("/lsts", registerHandler(handlers.ListLsts))
			r.Get("/tvl", registerHandler(handlers.GetNetworkTvl))

			r.Get("/lsts/{lst}", registerHandler(handlers.GetLst))
			r.Get("/lsts/{lst}/tvl", registerHandler(handlers.GetLstTvl))
			r.Post("/lsts/{lst}/stake", registerHandler(handlers.Stake))
			r.Post("/lsts/{lst}/unstake", registerHandler(handlers.Unstake))
			r.Post("/lsts/{lst}/claim", registerHandler(handlers.Claim))

			r.Get("/address/{address}/lsts/{lst}/balance", registerHandler(handlers.GetBalance))
			r.Get("/address/{address}/withdrawals", registerHandler(handlers.GetWithdrawals))
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
