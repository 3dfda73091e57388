package routes

import (
	"github.com/findlessons/backend/handlers"
	"github.com/findlessons/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetMyProfile)
	profile.Put("/me", handlers.UpdateMyProfile)

	api.Get("/profiles/:profileId", handlers.ViewProfile)

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.GetMyNotifications)
	notifications.Delete("/:notificationId", handlers.DeleteNotification)
}
