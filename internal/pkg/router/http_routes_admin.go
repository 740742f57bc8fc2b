package router

import (
	"github.com/VoxFoxApp/VoxFox/app/controllers"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/api", middleware.RequireAdmin)

	adminGroup.Get("/stats", controllers.HandleAdminStats)
	adminGroup.Get("/vendor/subscription", controllers.HandleAdminVendorSubscription)

	// User management
	adminGroup.Get("/users", controllers.HandleAdminListUsers)
	adminGroup.Post("/users/:id/status", controllers.HandleAdminSetUserStatus)
	adminGroup.Delete("/users/:id", controllers.HandleAdminDeleteUser)

	// Payment review
	adminGroup.Get("/payments/pending", controllers.HandleAdminListPendingPayments)
	adminGroup.Post("/payments/:uuid/verify", controllers.HandleAdminVerifyPayment)
	adminGroup.Post("/payments/:uuid/reject", controllers.HandleAdminRejectPayment)

	// Runtime settings
	adminGroup.Get("/settings", controllers.HandleAdminGetSettings)
	adminGroup.Post("/settings", controllers.HandleAdminUpdateSettings)

	// Queue monitor
	adminGroup.Get("/queues", controllers.HandleAdminQueueKeys)
	adminGroup.Get("/queues/detail", controllers.HandleAdminQueueKeyDetail)
	adminGroup.Delete("/queues", controllers.HandleAdminDeleteQueueKey)
	adminGroup.Post("/queues/bulk-delete", controllers.HandleAdminQueueBulkDelete)
}
