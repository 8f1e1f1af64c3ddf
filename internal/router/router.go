package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authed := authMiddleware.Authenticate
	adminOnly := authMiddleware.RequireRoles(model.RoleAdmin)
	adminOrModerator := authMiddleware.RequireRoles(model.RoleAdmin, model.RoleModerator)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/user/signup", h.Auth.Signup)
		api.Post("/user/signin", h.Auth.Signin)
		api.With(authed).Post("/user/logout", h.Auth.Logout)

		api.With(authed).Get("/profile", h.User.GetProfile)
		api.With(authed).Patch("/profile", h.User.UpdateProfile)
		api.With(authed).Patch("/password", h.User.UpdatePassword)

		api.With(authed, adminOrModerator).Patch("/user/{id}", h.User.AdminUpdate)
		api.With(authed, adminOnly).Delete("/user/{id}", h.User.Delete)

		api.With(authed, adminOnly).Post("/products", h.Product.Create)
		api.With(authed).Get("/products", h.Product.List)
		api.With(authed).Get("/products/{id}", h.Product.Get)
		api.With(authed, adminOrModerator).Put("/products/{id}", h.Product.Update)
		api.With(authed, adminOnly).Delete("/products/{id}", h.Product.Delete)
	})

	return r
}
