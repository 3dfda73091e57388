package handlers

import (
	"github.com/findlessons/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RateTeacherRequest struct {
	Stars *int `json:"stars" validate:"required,min=0,max=5"`
}

func RateTeacher(c *fiber.Ctx) error {
	studentID := currentProfileID(c)

	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	var req RateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rating, err := services.RateTeacher(studentID, teacherID, *req.Stars)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(rating)
}

func DeleteRating(c *fiber.Ctx) error {
	requesterID := currentProfileID(c)

	ratingID, err := uuid.Parse(c.Params("ratingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rating id"})
	}

	if err := services.UnrateTeacher(ratingID, requesterID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyRatings(c *fiber.Ctx) error {
	studentID := currentProfileID(c)

	ratings, err := services.ListRatingsByStudent(studentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve ratings"})
	}
	return c.JSON(ratings)
}
