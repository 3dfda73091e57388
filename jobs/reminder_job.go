package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/findlessons/backend/notifications"
)

// SendLessonReminders notifies both parties of lessons starting in roughly an
// hour. Runs every five minutes; the 60-65 minute band keeps each lesson from
// being picked up twice.
func SendLessonReminders() {
	log.Println("Running job: SendLessonReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingLessons []models.Lesson

	err := database.DB.
		Preload("Student").
		Preload("Teacher").
		Where("date BETWEEN ? AND ?", lowerBound, upperBound).
		Find(&upcomingLessons).Error

	if err != nil {
		log.Printf("Error checking for upcoming lessons: %v", err)
		return
	}

	for _, lesson := range upcomingLessons {
		text := fmt.Sprintf("Reminder: your %s lesson starts at %s",
			lesson.Subject, lesson.Date.Format("15:04"))
		notifications.Append(lesson.StudentID, text)
		notifications.Append(lesson.TeacherID, text)
	}

	if len(upcomingLessons) > 0 {
		log.Printf("Sent reminders for %d lesson(s).", len(upcomingLessons))
	}
}
