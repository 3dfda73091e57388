package handlers

import (
	"time"

	"github.com/findlessons/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAvailabilityRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func CreateAvailabilitySlot(c *fiber.Ctx) error {
	teacherID := currentProfileID(c)

	var req CreateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, _ := time.Parse(time.RFC3339, req.Date)

	slot, err := services.PublishAvailability(teacherID, date)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func DeleteAvailabilitySlot(c *fiber.Ctx) error {
	requesterID := currentProfileID(c)

	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	if err := services.WithdrawAvailability(slotID, requesterID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetTeacherAvailability(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	from := time.Now()
	to := from.AddDate(0, 0, 21)

	slots, err := services.ListUpcomingAvailability(teacherID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve availability"})
	}
	return c.JSON(slots)
}

func GetTeacherCalendar(c *fiber.Ctx) error {
	viewerID := currentProfileID(c)

	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	days, err := services.CalendarView(teacherID, viewerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build calendar"})
	}
	return c.JSON(days)
}
