package services

import (
	"errors"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverlapWindow is the exclusion zone around any lesson or slot for a given
// teacher or student. Two timestamps conflict when they are strictly closer
// than this; exactly one hour apart is legal.
const OverlapWindow = time.Hour

// PublishAvailability creates an open slot for the teacher at the given
// timestamp (minute precision). The timestamp must be in the future and must
// not fall inside the overlap window of any existing slot or lesson of the
// same teacher.
func PublishAvailability(teacherID uuid.UUID, date time.Time) (*models.AvailabilitySlot, error) {
	date = date.Truncate(time.Minute)

	if !date.After(time.Now()) {
		return nil, validationErr("availability must be set in the future")
	}

	var slot models.AvailabilitySlot
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		conflict, err := teacherWindowConflict(tx, teacherID, date, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return validationErr("the teacher already has a slot or lesson within one hour of this time")
		}

		slot = models.AvailabilitySlot{TeacherID: teacherID, Date: date}
		if err := tx.Create(&slot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return validationErr("the teacher already has a slot at this time")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// WithdrawAvailability deletes a slot. Only the owning teacher may do so.
func WithdrawAvailability(slotID, requesterID uuid.UUID) error {
	var slot models.AvailabilitySlot
	if err := database.DB.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr("availability slot")
		}
		return err
	}
	if slot.TeacherID != requesterID {
		return permissionErr("you can only delete your own availability")
	}
	return database.DB.Delete(&slot).Error
}

// ListUpcomingAvailability returns the teacher's slots in [from, to],
// ascending by timestamp.
func ListUpcomingAvailability(teacherID uuid.UUID, from, to time.Time) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := database.DB.
		Where("teacher_id = ? AND date >= ? AND date <= ?", teacherID, from, to).
		Order("date asc").
		Find(&slots).Error
	return slots, err
}

// teacherWindowConflict reports whether the teacher has any slot or lesson
// strictly within OverlapWindow of date. excludeLesson skips one lesson row,
// for reschedules of that same lesson.
func teacherWindowConflict(tx *gorm.DB, teacherID uuid.UUID, date time.Time, excludeLesson uuid.UUID) (bool, error) {
	lower := date.Add(-OverlapWindow)
	upper := date.Add(OverlapWindow)

	var slotCount int64
	if err := tx.Model(&models.AvailabilitySlot{}).
		Where("teacher_id = ? AND date > ? AND date < ?", teacherID, lower, upper).
		Count(&slotCount).Error; err != nil {
		return false, err
	}
	if slotCount > 0 {
		return true, nil
	}

	lessons := tx.Model(&models.Lesson{}).
		Where("teacher_id = ? AND date > ? AND date < ?", teacherID, lower, upper)
	if excludeLesson != uuid.Nil {
		lessons = lessons.Where("id <> ?", excludeLesson)
	}
	var lessonCount int64
	if err := lessons.Count(&lessonCount).Error; err != nil {
		return false, err
	}
	return lessonCount > 0, nil
}

// studentWindowConflict reports whether the student has another lesson
// strictly within OverlapWindow of date.
func studentWindowConflict(tx *gorm.DB, studentID uuid.UUID, date time.Time, excludeLesson uuid.UUID) (bool, error) {
	lower := date.Add(-OverlapWindow)
	upper := date.Add(OverlapWindow)

	q := tx.Model(&models.Lesson{}).
		Where("student_id = ? AND date > ? AND date < ?", studentID, lower, upper)
	if excludeLesson != uuid.Nil {
		q = q.Where("id <> ?", excludeLesson)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
