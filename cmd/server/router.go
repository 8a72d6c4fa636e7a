package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.refreshTokenStore,
		app.jwtService,
		app.passwordVerifier,
		app.db,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	productHandler := api.NewProductHandler(app.productService, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Public catalog browsing. Product detail takes an optional token
		// so sellers can preview their inactive products.
		r.Get("/categories", categoryHandler.List)
		r.Get("/categories/{slug}", categoryHandler.Get)
		r.Get("/products", productHandler.List)
		r.With(authMiddleware.AuthenticateOptional).Get("/products/{slug}", productHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/profile", userHandler.Profile)
			r.Put("/auth/profile", userHandler.UpdateProfile)

			r.Get("/users", userHandler.List)
			r.Get("/users/me", userHandler.Profile)
			r.Put("/users/me", userHandler.UpdateProfile)
			r.Delete("/users/me", userHandler.DeleteAccount)
			r.Get("/users/{id}", userHandler.Get)

			r.Post("/categories", categoryHandler.Create)
			r.Put("/categories/{id}", categoryHandler.Update)
			r.Delete("/categories/{id}", categoryHandler.Delete)

			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
