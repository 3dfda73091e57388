package handlers

import (
	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/gofiber/fiber/v2"
)

func GetMyProfile(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", profileID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	return c.JSON(user)
}

type UpdateProfileRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=30"`
	LastName  string  `json:"last_name" validate:"required,max=30"`
	Email     string  `json:"email" validate:"required,email"`
	TelNumber *string `json:"tel_number,omitempty" validate:"omitempty,max=20"`
}

func UpdateMyProfile(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", profileID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.TelNumber = req.TelNumber
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(user)
}

func ViewProfile(c *fiber.Ctx) error {
	profileID := c.Params("profileId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", profileID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	if user.Role == "admin" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	if user.Role == "teacher" {
		var teacher models.Teacher
		if err := database.DB.Preload("User").Preload("Subjects").
			First(&teacher, "user_id = ?", user.ID).Error; err == nil {
			return c.JSON(teacher)
		}
	}
	return c.JSON(user)
}
