package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babylonchain/mesh-provider/internal/api/handlers"
	"github.com/babylonchain/mesh-provider/internal/api/middlewares"
	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	httpServer *http.Server
	handlers   *handlers.Handler
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Server, error) {
	r := chi.NewRouter()

	if cfg.Server.LogLevel != "" {
		logLevel, err := zerolog.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("error while parsing log level: %w", err)
		}
		zerolog.SetGlobalLevel(logLevel)
	}

	r.Use(middlewares.CorsMiddleware(cfg))
	r.Use(middlewares.SecurityHeadersMiddleware())
	r.Use(middlewares.TracingMiddleware)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(middlewares.ContentLengthMiddleware(cfg))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      r,
	}

	handlers, err := handlers.New(ctx, cfg, services)
	if err != nil {
		return nil, fmt.Errorf("error while setting up handlers: %w", err)
	}

	server := &Server{
		httpServer: srv,
		handlers:   handlers,
	}
	server.SetupRoutes(r)
	return server, nil
}

// Handler exposes the router, mainly for httptest.
func (a *Server) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *Server) Start() error {
	log.Info().Msgf("Starting server on %s", a.httpServer.Addr)
	return a.httpServer.ListenAndServe()
}

func (a *Server) Shutdown(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}
