package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-collection-api/internal/config"
	"go-collection-api/internal/handler"
	"go-collection-api/internal/middleware"
	"go-collection-api/internal/permission"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Collection *handler.CollectionHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/signup", h.Auth.Signup)
	r.With(authMiddleware.RequireBasic).Post("/signin", h.Auth.Signin)
	r.With(authMiddleware.RequireBearer).Get("/secret", h.Auth.Secret)
	r.With(authMiddleware.RequireBearer, authMiddleware.RequireAction(permission.ActionDelete)).Get("/users", h.User.List)

	// v1 is open: no credentials are checked.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		mountCollections(api, h.Collection)
	})

	r.Route("/api/v2", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Group(func(gated chi.Router) {
			// Path params are only resolved for inline middleware.
			gated.Use(authMiddleware.RequireBearer, authMiddleware.RequireCollectionAccess)
			mountCollections(gated, h.Collection)
		})
	})

	return r
}

func mountCollections(r chi.Router, collections *handler.CollectionHandler) {
	r.Post("/{collection}", collections.Create)
	r.Get("/{collection}", collections.List)
	r.Get("/{collection}/{id}", collections.Get)
	r.Put("/{collection}/{id}", collections.Update)
	r.Patch("/{collection}/{id}", collections.Update)
	r.Delete("/{collection}/{id}", collections.Delete)
}
