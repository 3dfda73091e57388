package routes

import (
	"github.com/findlessons/backend/handlers"
	"github.com/findlessons/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/subjects", handlers.ListSubjects)
	api.Get("/teachers/search", handlers.SearchTeachers)
	api.Get("/teachers/:teacherId/availability", handlers.GetTeacherAvailability)
	api.Get("/teachers/:teacherId", handlers.GetTeacherProfile)

	me := api.Group("/teachers", middleware.Protected(), middleware.TeacherRequired())
	me.Get("/me/profile", handlers.GetMyTeacherProfile)
	me.Put("/me/profile", handlers.UpdateMyTeacherProfile)

	availability := api.Group("/availability", middleware.Protected(), middleware.TeacherRequired())
	availability.Post("", handlers.CreateAvailabilitySlot)
	availability.Delete("/:slotId", handlers.DeleteAvailabilitySlot)

	api.Get("/teachers/:teacherId/calendar", middleware.Protected(), handlers.GetTeacherCalendar)
}
