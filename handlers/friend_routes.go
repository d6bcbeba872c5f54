// handlers/friend_routes.go
package handlers

import (
	"friend-map-system/middleware"
	"friend-map-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupFriendRoutes wires registered friendships, imported contacts, groups,
// and the ad-hoc geocode lookup.
func SetupFriendRoutes(app *fiber.App, db *gorm.DB, friendService *services.FriendService, importedService *services.ImportedService, groupService *services.GroupService) {
	secured := app.Group("/api", middleware.SessionAuthMiddleware(db))

	// Registered friendships
	secured.Get("/friends", friendService.GetFriends)
	secured.Get("/friends/map", friendService.GetFriendsMap)
	secured.Post("/friends/request", friendService.SendRequest)
	secured.Get("/friends/requests", friendService.GetRequests)
	secured.Post("/friends/accept/:friendship_id", friendService.AcceptRequest)
	secured.Delete("/friends/:friend_id", friendService.RemoveFriend)

	// Imported contacts
	secured.Get("/imported-friends", importedService.List)
	secured.Get("/imported-friends/map", importedService.ListForMap)
	secured.Post("/imported-friends", importedService.Add)
	secured.Post("/imported-friends/csv", importedService.ImportCSV)
	secured.Put("/imported-friends/:friend_id", importedService.Update)
	secured.Delete("/imported-friends/:friend_id", importedService.Delete)
	secured.Post("/imported-friends/:friend_id/geocode", importedService.GeocodeOne)

	// One-off city lookup (used by the frontend map picker)
	secured.Post("/geocode", importedService.GeocodeLookup)

	// Groups
	secured.Post("/groups", groupService.Create)
	secured.Get("/groups", groupService.List)
	secured.Get("/groups/:group_id", groupService.Get)
	secured.Put("/groups/:group_id", groupService.Update)
	secured.Delete("/groups/:group_id", groupService.Delete)
	secured.Post("/groups/:group_id/members", groupService.AddMember)
	secured.Delete("/groups/:group_id/members/:member_id", groupService.RemoveMember)
}
