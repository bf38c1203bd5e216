package api

import (
	"net/http"

	"github.com/dom/news-api/internal/api/handlers"
	"github.com/dom/news-api/internal/api/middleware"
	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *feed.Hub, cfg *config.Config, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, handlers.MessageResponse{Message: "News API is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	transport := auth.NewTransport(cfg)
	authenticate := middleware.Authenticate(services.Tokens, transport, logger)
	adminOnly := middleware.Authorize(domain.Roles(domain.RoleAdmin))
	staff := middleware.Authorize(domain.Roles(domain.RoleAdmin, domain.RoleEditor))

	authHandler := handlers.NewAuthHandler(services.Auth, transport, logger)
	adminHandler := handlers.NewAdminHandler(services.Account, logger)
	newsHandler := handlers.NewNewsHandler(services.News, logger)
	feedHandler := handlers.NewFeedHandler(hub, cfg.CORSOrigin, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/login-with-refresh", authHandler.LoginWithRefresh)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.With(authenticate).Get("/me", authHandler.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, adminOnly)

			r.Get("/users", adminHandler.List)
			r.Post("/users/filter", adminHandler.ListByFilter)
			r.Patch("/users/{id}/role", adminHandler.ChangeRole)
			r.Patch("/users/{id}/disable", adminHandler.Disable)
			r.Patch("/users/{id}/enable", adminHandler.Enable)
			r.Delete("/users/{id}", adminHandler.Delete)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", newsHandler.List)
			r.Post("/filter", newsHandler.ListByFilter)
			r.Get("/feed", feedHandler.Handle)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.With(staff).Post("/", newsHandler.Create)
				r.With(staff).Put("/{id}", newsHandler.Update)
				r.With(adminOnly).Delete("/{id}", newsHandler.Delete)
			})
		})
	})

	return r
}
