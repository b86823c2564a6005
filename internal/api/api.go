package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Adithecoder/SocialM-sub001/internal/auth"
	"github.com/Adithecoder/SocialM-sub001/internal/config"
)

// Api wires the HTTP surface over the auth service.
type Api struct {
	Config *config.Config
	Auth   *auth.Service
	Router *chi.Mux
}

// NewApi creates the API and sets up its routes.
func NewApi(cfg *config.Config, authSvc *auth.Service) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, fmt.Errorf("must have at least a port to start API")
	}

	api := &Api{
		Config: cfg,
		Auth:   authSvc,
		Router: chi.NewRouter(),
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	// Public routes
	r.Post("/login", api.LoginHandler)
	r.Post("/register", api.RegisterHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(api.Auth.Tokens()))
		r.Get("/me", api.MeHandler)
	})
}

// Serve starts the HTTP server and blocks.
func (api *Api) Serve() {
	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	log.Printf("Starting API server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, api.Router))
}
