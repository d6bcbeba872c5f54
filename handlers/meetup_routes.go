// handlers/meetup_routes.go
package handlers

import (
	"friend-map-system/middleware"
	"friend-map-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupMeetupRoutes wires meetups and direct messaging.
func SetupMeetupRoutes(app *fiber.App, db *gorm.DB, meetupService *services.MeetupService, messageService *services.MessageService) {
	secured := app.Group("/api", middleware.SessionAuthMiddleware(db))

	secured.Post("/meetups", meetupService.Create)
	secured.Get("/meetups", meetupService.List)
	secured.Post("/meetups/:meetup_id/join", meetupService.Join)
	secured.Delete("/meetups/:meetup_id", meetupService.Delete)

	secured.Post("/messages", messageService.Send)
	secured.Get("/messages/inbox", messageService.Inbox)
	secured.Get("/messages/sent", messageService.Sent)
	secured.Put("/messages/:message_id/read", messageService.MarkRead)
}
