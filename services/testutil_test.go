package services

import (
	"testing"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global DB for a fresh in-memory sqlite instance.
// A single connection keeps every query on the same database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Subject{},
		&models.AvailabilitySlot{},
		&models.Lesson{},
		&models.Rating{},
		&models.Chat{},
		&models.Message{},
		&models.Visibility{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
}

func createStudent(t *testing.T, firstName string) models.User {
	t.Helper()

	user := models.User{
		FirstName: firstName,
		LastName:  "Student",
		Email:     firstName + "@students.test",
		Password:  "irrelevant",
		Role:      "student",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return user
}

func createTeacher(t *testing.T, firstName, city string, price float64, subjects ...string) models.Teacher {
	t.Helper()

	user := models.User{
		FirstName: firstName,
		LastName:  "Teacher",
		Email:     firstName + "@teachers.test",
		Password:  "irrelevant",
		Role:      "teacher",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create teacher user: %v", err)
	}

	teacher := models.Teacher{UserID: user.ID, City: city, HourlyPrice: price}
	for _, name := range subjects {
		var subject models.Subject
		if err := database.DB.Where("name = ?", name).
			FirstOrCreate(&subject, models.Subject{Name: name}).Error; err != nil {
			t.Fatalf("failed to create subject %q: %v", name, err)
		}
		teacher.Subjects = append(teacher.Subjects, &subject)
	}
	if err := database.DB.Create(&teacher).Error; err != nil {
		t.Fatalf("failed to create teacher: %v", err)
	}
	return teacher
}

func publishSlot(t *testing.T, teacherID uuid.UUID, date time.Time) *models.AvailabilitySlot {
	t.Helper()

	slot, err := PublishAvailability(teacherID, date)
	if err != nil {
		t.Fatalf("failed to publish availability: %v", err)
	}
	return slot
}

func countNotifications(t *testing.T, profileID uuid.UUID) int64 {
	t.Helper()

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}

func futureTime(t *testing.T, d time.Duration) time.Time {
	t.Helper()
	return time.Now().Add(d).Truncate(time.Minute)
}
