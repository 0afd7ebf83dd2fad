package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recipebox/recipebox/internal/app"
	"github.com/recipebox/recipebox/internal/handler"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	dish := handler.NewDishHandler(app.DishService, app.FeedbackService)
	feedback := handler.NewFeedbackHandler(app.DishService, app.FeedbackService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Photos (S3 serves its own URLs)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", handler.Uploads(local.Root()))
	}

	// Operations
	mux.HandleFunc("GET /healthz", home.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", rateLimiter(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("GET /logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Dishes
	mux.HandleFunc("GET /{$}", middleware.RequireAuth(dish.Index))
	mux.HandleFunc("GET /create-dish", middleware.RequireAuth(dish.CreatePage))
	mux.HandleFunc("POST /create-dish", middleware.RequireAuth(dish.Create))
	mux.HandleFunc("GET /dish/{id}", middleware.RequireAuth(dish.Show))
	mux.HandleFunc("GET /edit-dish/{id}", middleware.RequireAuth(dish.EditPage))
	mux.HandleFunc("POST /edit-dish/{id}", middleware.RequireAuth(dish.Edit))
	mux.HandleFunc("POST /delete-dish/{id}", middleware.RequireAuth(dish.Delete))

	// Feedback
	mux.HandleFunc("GET /dish/{id}/add-feedback", middleware.RequireAuth(feedback.Page))
	mux.HandleFunc("POST /dish/{id}/add-feedback", middleware.RequireAuth(feedback.Add))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders and CSRF limits)
		middleware.Metrics,
		middleware.NonceMiddleware, // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.Flash,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.WithURLPath,
	)

	return handler
}
