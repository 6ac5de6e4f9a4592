package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aicms/aicms-api/internal/api"
	apiMiddleware "github.com/aicms/aicms-api/internal/api/middleware"
	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/service"
)

// corsMaxAgeSeconds is how long browsers may cache a preflight response.
const corsMaxAgeSeconds = 300

// routerDeps are the collaborators the HTTP layer needs.
type routerDeps struct {
	server   config.ServerConfig
	logger   *slog.Logger
	users    service.UserService
	contents service.ContentService
}

// setupRouter builds the router from the application's services.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		server:   app.config.Server,
		logger:   app.logger,
		users:    app.userService,
		contents: app.contentService,
	})
}

// newRouter creates the chi router with middleware and all routes.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.DebugErrors(deps.server.Debug))
	r.Use(middleware.RequestSize(deps.server.MaxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.server.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))

	userHandler := api.NewUserHandler(deps.users, deps.contents, deps.logger)
	contentHandler := api.NewContentHandler(deps.contents, deps.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.users)

	r.Get("/health", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/auth/google", userHandler.LoginWithGoogle)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/profile", userHandler.GetProfile)
				r.Get("/usage-stats", userHandler.GetUsageStats)
			})
		})

		r.Route("/content/ai", func(r chi.Router) {
			r.Get("/get-template-list", contentHandler.GetTemplateList)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/generate-content", contentHandler.GenerateContent)
				r.Post("/regenerate-content", contentHandler.RegenerateContent)
				r.Get("/get-content-list", contentHandler.GetContentList)
				r.Get("/get-content-detail", contentHandler.GetContentDetail)
				r.Post("/edit-content", contentHandler.EditContent)
				r.Delete("/delete-content", contentHandler.DeleteContent)
			})
		})
	})

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	return r
}
