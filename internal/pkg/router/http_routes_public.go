package router

import (
	"github.com/VoxFoxApp/VoxFox/app/controllers"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/constants"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.PublicRoute, controllers.HandleIndex)
	app.Get("/health", controllers.HandleHealth)
	app.Get("/plans", controllers.HandleListPlans)

	// Account lifecycle
	app.Post("/register", controllers.HandleRegister)
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	app.Get("/activate", controllers.HandleActivate)
	app.Post("/activate", controllers.HandleActivate)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
	app.Post("/auth/logout", controllers.HandleOAuthLogout)

	// Signed audio downloads. The token carries user and generation
	// identity, so no session is required.
	app.Get(constants.DownloadRoute+"/:token", controllers.HandleDownloadGeneration)
}
