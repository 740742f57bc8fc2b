package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/statistics"
)

// HandleHealth is the liveness endpoint.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleIndex describes the service and its public numbers.
func HandleIndex(c *fiber.Ctx) error {
	settings := models.GetAppSettings()
	stats := statistics.GetStatistics()

	return c.JSON(fiber.Map{
		"name":        settings.GetSiteTitle(),
		"description": settings.SiteDescription,
		"stats": fiber.Map{
			"total_users":       stats.TotalUsers,
			"total_generations": stats.TotalGenerations,
			"today_generations": stats.TodayGenerations,
		},
	})
}
