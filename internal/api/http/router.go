package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/image-platform/internal/api/http/handlers"
	"github.com/spec-kit/image-platform/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Generations    *handlers.GenerationsHandler
	Configs        *handlers.ConfigsHandler
	Images         *handlers.ImagesHandler
	Styles         *handlers.StylesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireActive(), cfg.Auth.Me)

	users := v1.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireActive())
	users.Get("/profile", cfg.Users.Profile)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Post("/change-password", cfg.Users.ChangePassword)
	users.Get("/usage", cfg.Users.Usage)

	generations := v1.Group("/generations", cfg.AuthMiddleware.Handle, auth.RequireVerified())
	generations.Post("/", cfg.Generations.Create)
	generations.Get("/", cfg.Generations.List)
	generations.Get("/:id", cfg.Generations.Get)

	configs := v1.Group("/configs", cfg.AuthMiddleware.Handle, auth.RequireVerified())
	configs.Get("/", cfg.Configs.List)
	configs.Post("/", cfg.Configs.Create)
	configs.Get("/:id", cfg.Configs.Get)
	configs.Put("/:id", cfg.Configs.Update)
	configs.Delete("/:id", cfg.Configs.Delete)

	images := v1.Group("/images", cfg.AuthMiddleware.Optional)
	images.Get("/", cfg.Images.List)
	images.Get("/:id", cfg.Images.Get)
	images.Post("/:id/like", cfg.Images.Like)
	images.Post("/:id/download", cfg.Images.Download)

	styles := v1.Group("/styles")
	styles.Get("/", cfg.Styles.List)
	styles.Get("/popular", cfg.Styles.Popular)
	styles.Post("/", cfg.AuthMiddleware.Handle, auth.RequireSuperuser(), cfg.Styles.Create)
	styles.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireSuperuser(), cfg.Styles.Delete)
}
