package handlers

import (
	"time"

	"github.com/findlessons/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateLessonRequest struct {
	AvailabilitySlotID string `json:"availability_slot_id" validate:"required,uuid"`
	Subject            string `json:"subject" validate:"required,max=50"`
}

func CreateLesson(c *fiber.Ctx) error {
	studentID := currentProfileID(c)

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.AvailabilitySlotID)

	lesson, err := services.BookLesson(studentID, slotID, req.Subject)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

type RescheduleLessonRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func RescheduleLesson(c *fiber.Ctx) error {
	requesterID := currentProfileID(c)

	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}

	var req RescheduleLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	newDate, _ := time.Parse(time.RFC3339, req.NewDate)

	lesson, err := services.RescheduleLesson(lessonID, newDate, requesterID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(lesson)
}

func CancelLesson(c *fiber.Ctx) error {
	requesterID := currentProfileID(c)

	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}
	resetSlot := c.QueryBool("reset", false)

	if err := services.CancelLesson(lessonID, requesterID, resetSlot); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyLessons(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	lessons, err := services.ListLessons(profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve lessons"})
	}
	return c.JSON(lessons)
}
