package handlers

import (
	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetMyNotifications lists the profile's notifications newest-first and marks
// them read, like opening the notifications page.
func GetMyNotifications(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	var notifications []models.Notification
	if err := database.DB.
		Where("profile_id = ?", profileID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve notifications"})
	}

	database.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND read = ?", profileID, false).
		Update("read", true)

	return c.JSON(notifications)
}

func DeleteNotification(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	var notification models.Notification
	if err := database.DB.First(&notification, "id = ?", notificationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	if notification.ProfileID != profileID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only delete your own notifications"})
	}

	database.DB.Delete(&notification)
	return c.SendStatus(fiber.StatusNoContent)
}
