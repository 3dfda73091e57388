package routes

import (
	"github.com/findlessons/backend/handlers"
	"github.com/findlessons/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	lessons := api.Group("/lessons", middleware.Protected())
	lessons.Get("/me", handlers.GetMyLessons)
	lessons.Post("", handlers.CreateLesson)
	lessons.Patch("/:lessonId/reschedule", handlers.RescheduleLesson)
	lessons.Delete("/:lessonId", handlers.CancelLesson)

	ratings := api.Group("", middleware.Protected())
	ratings.Put("/teachers/:teacherId/rating", handlers.RateTeacher)
	ratings.Get("/ratings/me", handlers.GetMyRatings)
	ratings.Delete("/ratings/:ratingId", handlers.DeleteRating)
}
