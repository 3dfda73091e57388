package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/findlessons/backend/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const lessonTimeLayout = "Mon 02 Jan 2006 at 15:04"

// BookLesson converts an availability slot into a confirmed lesson. The slot
// is re-validated and deleted in the same transaction that inserts the
// lesson; the delete guards against racing bookings (zero rows affected means
// the slot was raced away, NotFoundError) and the unique (teacher, date)
// lesson index rejects duplicate cells at the store level.
func BookLesson(studentID, slotID uuid.UUID, subject string) (*models.Lesson, error) {
	var lesson models.Lesson

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var slot models.AvailabilitySlot
		if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("availability slot")
			}
			return err
		}

		if slot.TeacherID == studentID {
			return validationErr("you cannot book a lesson with yourself")
		}
		if !slot.Date.After(time.Now()) {
			return validationErr("this slot is no longer in the future")
		}

		var teacher models.Teacher
		if err := tx.Preload("Subjects").First(&teacher, "user_id = ?", slot.TeacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("teacher")
			}
			return err
		}
		if !teacher.TeachesSubject(subject) {
			return validationErr("the teacher does not teach this subject")
		}

		// Consume every slot of this teacher at the exact timestamp before
		// checking windows, so the booked cell itself is not a conflict.
		// Zero rows affected means a concurrent booking got here first.
		res := tx.Where("teacher_id = ? AND date = ?", slot.TeacherID, slot.Date).
			Delete(&models.AvailabilitySlot{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFoundErr("availability slot")
		}

		conflict, err := teacherWindowConflict(tx, slot.TeacherID, slot.Date, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return validationErr("the teacher already has a slot or lesson within one hour of this time")
		}
		conflict, err = studentWindowConflict(tx, studentID, slot.Date, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return validationErr("you already have a lesson within one hour of this time")
		}

		lesson = models.Lesson{
			StudentID: studentID,
			TeacherID: slot.TeacherID,
			Subject:   subject,
			Date:      slot.Date,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return validationErr("the teacher already has a lesson at this time")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyBothParties(&lesson,
		fmt.Sprintf("booked a %s lesson with you on %s", lesson.Subject, lesson.Date.Format(lessonTimeLayout)),
		fmt.Sprintf("Your %s lesson on %s with", lesson.Subject, lesson.Date.Format(lessonTimeLayout)), "is confirmed")

	return &lesson, nil
}

// RescheduleLesson moves a lesson to a new timestamp. Only the teacher may
// reschedule. Slots of the teacher inside the overlap window of the new
// timestamp are evicted; remaining lessons of either party inside the window
// reject the move.
func RescheduleLesson(lessonID uuid.UUID, newDate time.Time, requesterID uuid.UUID) (*models.Lesson, error) {
	newDate = newDate.Truncate(time.Minute)
	if !newDate.After(time.Now()) {
		return nil, validationErr("the new lesson time must be in the future")
	}

	var lesson models.Lesson
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lesson, "id = ?", lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("lesson")
			}
			return err
		}
		if lesson.TeacherID != requesterID {
			return permissionErr("only the teacher can reschedule a lesson")
		}

		// Slot takes precedence removal: availability colliding with the new
		// time is evicted, not reported as a conflict.
		if err := tx.Where("teacher_id = ? AND date > ? AND date < ?",
			lesson.TeacherID, newDate.Add(-OverlapWindow), newDate.Add(OverlapWindow)).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}

		conflict, err := teacherWindowConflict(tx, lesson.TeacherID, newDate, lesson.ID)
		if err != nil {
			return err
		}
		if conflict {
			return validationErr("you already have a lesson within one hour of the new time")
		}
		conflict, err = studentWindowConflict(tx, lesson.StudentID, newDate, lesson.ID)
		if err != nil {
			return err
		}
		if conflict {
			return validationErr("the student already has a lesson within one hour of the new time")
		}

		lesson.Date = newDate
		return tx.Save(&lesson).Error
	})
	if err != nil {
		return nil, err
	}

	notifyBothParties(&lesson,
		fmt.Sprintf("moved your %s lesson to %s", lesson.Subject, lesson.Date.Format(lessonTimeLayout)),
		fmt.Sprintf("Your %s lesson with", lesson.Subject),
		fmt.Sprintf("was moved to %s", lesson.Date.Format(lessonTimeLayout)))

	return &lesson, nil
}

// CancelLesson deletes a lesson on behalf of either party. With resetSlot the
// vacated timestamp is re-published as availability, which is only possible
// while the lesson is still in the future; on a past lesson the row is still
// removed (silent cleanup) but the reset is reported as a ValidationError.
// Cancellation notifications are only emitted for future lessons.
func CancelLesson(lessonID, requesterID uuid.UUID, resetSlot bool) error {
	var lesson models.Lesson
	var future bool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lesson, "id = ?", lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("lesson")
			}
			return err
		}
		if requesterID != lesson.StudentID && requesterID != lesson.TeacherID {
			return permissionErr("you are not a party of this lesson")
		}

		future = lesson.Date.After(time.Now())

		res := tx.Delete(&lesson)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFoundErr("lesson")
		}

		if resetSlot && future {
			slot := models.AvailabilitySlot{TeacherID: lesson.TeacherID, Date: lesson.Date}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if future {
		notifyBothParties(&lesson,
			fmt.Sprintf("cancelled the %s lesson on %s", lesson.Subject, lesson.Date.Format(lessonTimeLayout)),
			fmt.Sprintf("Your %s lesson on %s with", lesson.Subject, lesson.Date.Format(lessonTimeLayout)),
			"was cancelled")
	}

	if resetSlot && !future {
		return validationErr("cannot restore availability for a lesson in the past")
	}
	return nil
}

// ListLessons returns a profile's lessons, as student or teacher, ascending
// by timestamp.
func ListLessons(profileID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := database.DB.
		Preload("Student").
		Preload("Teacher").
		Where("student_id = ? OR teacher_id = ?", profileID, profileID).
		Order("date asc").
		Find(&lessons).Error
	return lessons, err
}

// FindTeachers searches teachers by subject (case-insensitive substring) and
// city (case-insensitive exact). With a date range only teachers having at
// least one slot between start-of-day(from) and end-of-day(to) qualify.
// orderBy is "price" or "stars"; the other field is always the secondary key
// so the order is a deterministic total one. Each teacher appears once.
func FindTeachers(subject, city string, from, to *time.Time, orderBy string) ([]models.Teacher, error) {
	var order string
	switch orderBy {
	case "price":
		order = "teachers.hourly_price asc, teachers.stars desc"
	case "stars":
		order = "teachers.stars desc, teachers.hourly_price asc"
	default:
		return nil, validationErr("order_by must be price or stars")
	}

	q := database.DB.Model(&models.Teacher{}).
		Preload("User").
		Preload("Subjects").
		Where("LOWER(teachers.city) = LOWER(?)", strings.TrimSpace(city)).
		Where(`EXISTS (
			SELECT 1 FROM teacher_subjects ts
			JOIN subjects s ON s.id = ts.subject_id
			WHERE ts.teacher_user_id = teachers.user_id AND LOWER(s.name) LIKE ?)`,
			"%"+strings.ToLower(strings.TrimSpace(subject))+"%")

	if from != nil && to != nil {
		q = q.Where(`EXISTS (
			SELECT 1 FROM availability_slots a
			WHERE a.teacher_id = teachers.user_id AND a.date >= ? AND a.date <= ?)`,
			startOfDay(*from), endOfDay(*to))
	}

	var teachers []models.Teacher
	err := q.Order(order).Find(&teachers).Error
	return teachers, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// notifyBothParties appends one notification per party after commit. The
// teacher sees "<student> <teacherText>", the student sees
// "<studentPrefix> <teacher> <studentSuffix>".
func notifyBothParties(lesson *models.Lesson, teacherText, studentPrefix, studentSuffix string) {
	var student, teacher models.User
	if err := database.DB.First(&student, "id = ?", lesson.StudentID).Error; err != nil {
		return
	}
	if err := database.DB.First(&teacher, "id = ?", lesson.TeacherID).Error; err != nil {
		return
	}

	notifications.Append(lesson.TeacherID, student.FullName()+" "+teacherText)
	notifications.Append(lesson.StudentID, studentPrefix+" "+teacher.FullName()+" "+studentSuffix)
}
