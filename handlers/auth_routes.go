// handlers/auth_routes.go
package handlers

import (
	"friend-map-system/middleware"
	"friend-map-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupAuthRoutes wires session management and profile endpoints.
func SetupAuthRoutes(app *fiber.App, db *gorm.DB, authService *services.AuthService, userService *services.UserService) {
	auth := app.Group("/api/auth")

	// Public: session bootstrap from the external auth provider.
	auth.Post("/session", authService.CreateSession)
	auth.Post("/logout", authService.Logout)

	secured := app.Group("/api", middleware.SessionAuthMiddleware(db))

	secured.Get("/auth/me", authService.Me)
	secured.Put("/users/me", userService.UpdateMe)
	secured.Get("/search/users", userService.SearchUsers)
	secured.Get("/users/:user_id", userService.GetUser)
}
