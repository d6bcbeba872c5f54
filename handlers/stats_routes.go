// handlers/stats_routes.go
package handlers

import (
	"friend-map-system/middleware"
	"friend-map-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupStatsRoutes wires the statistics endpoints, the GDPR export, and the
// operator-only recalculation endpoints.
func SetupStatsRoutes(app *fiber.App, db *gorm.DB, statsService *services.StatsService, exportService *services.ExportService) {
	secured := app.Group("/api", middleware.SessionAuthMiddleware(db))

	secured.Get("/stats/me", statsService.GetMyStats)
	secured.Post("/stats/me/recalculate", statsService.RecalculateMyStats)
	secured.Post("/export/me", exportService.ExportMe)

	// Operator endpoints, protected by the shared service token.
	admin := app.Group("/admin", middleware.ServiceAuthMiddleware())

	admin.Post("/stats/recalculate", statsService.RecalculateAllUsers)
	admin.Post("/stats/recalculate/:user_id", statsService.RecalculateUser)
	admin.Post("/export/:user_id", exportService.ExportUserAdmin)
}
