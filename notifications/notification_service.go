package notifications

import (
	"log"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
)

// Append adds an entry to the profile's notification log. Persistence is the
// contract; email alongside is best effort and never reported as a failure.
func Append(profileID uuid.UUID, text string) {
	notification := models.Notification{
		ProfileID: profileID,
		Text:      text,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to append notification for %s: %v", profileID, err)
		return
	}

	if EmailClient == nil {
		return
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", profileID).Error; err != nil {
		return
	}
	go SendEmail(user.FullName(), user.Email, "FindLessons update", "<p>"+text+"</p>")
}
