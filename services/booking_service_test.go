package services

import (
	"testing"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
)

func TestBookLessonConsumesSlot(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	lesson, err := BookLesson(student.ID, slot.ID, "math")
	if err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}
	if !lesson.Date.Equal(slot.Date) {
		t.Fatalf("lesson took date %v, want the slot's %v", lesson.Date, slot.Date)
	}

	var slotCount int64
	database.DB.Model(&models.AvailabilitySlot{}).Count(&slotCount)
	if slotCount != 0 {
		t.Fatalf("booked slot was not consumed, %d slot(s) remain", slotCount)
	}

	if n := countNotifications(t, teacher.UserID); n != 1 {
		t.Fatalf("teacher should have 1 booking notification, got %d", n)
	}
	if n := countNotifications(t, student.ID); n != 1 {
		t.Fatalf("student should have 1 booking notification, got %d", n)
	}
}

func TestBookLessonSlotRacedAway(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	rival := createStudent(t, "dario")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	if _, err := BookLesson(student.ID, slot.ID, "math"); err != nil {
		t.Fatalf("first booking should succeed, got %v", err)
	}
	if _, err := BookLesson(rival.ID, slot.ID, "math"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for a consumed slot, got %v", err)
	}
}

func TestBookLessonUnknownSubject(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	if _, err := BookLesson(student.ID, slot.ID, "violin"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for a subject the teacher does not teach, got %v", err)
	}
}

func TestBookLessonSelfBooking(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	if _, err := BookLesson(teacher.UserID, slot.ID, "math"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for booking your own slot, got %v", err)
	}
}

func TestBookLessonStudentWindowConflict(t *testing.T) {
	setupTestDB(t)
	first := createTeacher(t, "nina", "Milano", 25, "math")
	second := createTeacher(t, "marco", "Milano", 30, "physics")
	student := createStudent(t, "carlo")
	date := futureTime(t, 48*time.Hour)

	firstSlot := publishSlot(t, first.UserID, date)
	secondSlot := publishSlot(t, second.UserID, date.Add(30*time.Minute))

	if _, err := BookLesson(student.ID, firstSlot.ID, "math"); err != nil {
		t.Fatalf("first booking should succeed, got %v", err)
	}
	if _, err := BookLesson(student.ID, secondSlot.ID, "physics"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for a student double-booking inside the window, got %v", err)
	}
}

func TestCancelLessonWithReset(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	lesson, err := BookLesson(student.ID, slot.ID, "math")
	if err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}
	before := countNotifications(t, student.ID)

	if err := CancelLesson(lesson.ID, teacher.UserID, true); err != nil {
		t.Fatalf("failed to cancel lesson: %v", err)
	}

	var lessonCount int64
	database.DB.Model(&models.Lesson{}).Count(&lessonCount)
	if lessonCount != 0 {
		t.Fatalf("cancelled lesson still present, %d row(s)", lessonCount)
	}

	var restored models.AvailabilitySlot
	err = database.DB.Where("teacher_id = ? AND date = ?", teacher.UserID, lesson.Date).
		First(&restored).Error
	if err != nil {
		t.Fatalf("cancelling with reset should republish the slot: %v", err)
	}

	if n := countNotifications(t, student.ID); n != before+1 {
		t.Fatalf("student should get a cancellation notification, had %d now %d", before, n)
	}
}

func TestCancelPastLessonWithReset(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")

	lesson := models.Lesson{
		StudentID: student.ID,
		TeacherID: teacher.UserID,
		Subject:   "math",
		Date:      time.Now().Add(-24 * time.Hour).Truncate(time.Minute),
	}
	if err := database.DB.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to create past lesson: %v", err)
	}

	// The row is removed regardless, but the reset is refused.
	err := CancelLesson(lesson.ID, student.ID, true)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError resetting a past lesson, got %v", err)
	}

	var lessonCount, slotCount int64
	database.DB.Model(&models.Lesson{}).Count(&lessonCount)
	database.DB.Model(&models.AvailabilitySlot{}).Count(&slotCount)
	if lessonCount != 0 {
		t.Fatalf("past lesson should still be deleted, %d row(s) remain", lessonCount)
	}
	if slotCount != 0 {
		t.Fatalf("no slot may be restored for a past lesson, got %d", slotCount)
	}
	if n := countNotifications(t, student.ID); n != 0 {
		t.Fatalf("past cancellations are silent, got %d notification(s)", n)
	}
}

func TestCancelLessonRequiresParty(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	outsider := createStudent(t, "dario")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	lesson, err := BookLesson(student.ID, slot.ID, "math")
	if err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}

	if err := CancelLesson(lesson.ID, outsider.ID, false); !IsPermission(err) {
		t.Fatalf("expected PermissionError for a non-party, got %v", err)
	}
}

func TestRescheduleLessonEvictsSlot(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	date := futureTime(t, 48*time.Hour)
	newDate := date.Add(5 * time.Hour)

	slot := publishSlot(t, teacher.UserID, date)
	lesson, err := BookLesson(student.ID, slot.ID, "math")
	if err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}
	// Availability inside the window of the new time must make way.
	publishSlot(t, teacher.UserID, newDate.Add(30*time.Minute))

	moved, err := RescheduleLesson(lesson.ID, newDate, teacher.UserID)
	if err != nil {
		t.Fatalf("failed to reschedule lesson: %v", err)
	}
	if !moved.Date.Equal(newDate) {
		t.Fatalf("lesson date is %v, want %v", moved.Date, newDate)
	}

	var slotCount int64
	database.DB.Model(&models.AvailabilitySlot{}).Count(&slotCount)
	if slotCount != 0 {
		t.Fatalf("colliding slot should be evicted, %d slot(s) remain", slotCount)
	}
}

func TestRescheduleLessonTeacherOnly(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	lesson, err := BookLesson(student.ID, slot.ID, "math")
	if err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}

	if _, err := RescheduleLesson(lesson.ID, lesson.Date.Add(6*time.Hour), student.ID); !IsPermission(err) {
		t.Fatalf("expected PermissionError when the student reschedules, got %v", err)
	}
}

func TestRescheduleLessonWindowConflict(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	first := createStudent(t, "carlo")
	second := createStudent(t, "dario")
	date := futureTime(t, 48*time.Hour)

	slotA := publishSlot(t, teacher.UserID, date)
	slotB := publishSlot(t, teacher.UserID, date.Add(6*time.Hour))

	lessonA, err := BookLesson(first.ID, slotA.ID, "math")
	if err != nil {
		t.Fatalf("failed to book first lesson: %v", err)
	}
	if _, err := BookLesson(second.ID, slotB.ID, "math"); err != nil {
		t.Fatalf("failed to book second lesson: %v", err)
	}

	// Moving lesson A next to lesson B must be rejected.
	if _, err := RescheduleLesson(lessonA.ID, date.Add(6*time.Hour+30*time.Minute), teacher.UserID); !IsValidation(err) {
		t.Fatalf("expected ValidationError moving into another lesson's window, got %v", err)
	}
}

func TestFindTeachersFiltersAndOrder(t *testing.T) {
	setupTestDB(t)
	cheap := createTeacher(t, "nina", "Milano", 20, "Mathematics")
	pricey := createTeacher(t, "marco", "milano", 40, "math tutoring")
	createTeacher(t, "paola", "Roma", 10, "math")
	createTeacher(t, "luigi", "Milano", 15, "physics")

	byPrice, err := FindTeachers("math", "Milano", nil, nil, "price")
	if err != nil {
		t.Fatalf("failed to search teachers: %v", err)
	}
	if len(byPrice) != 2 {
		t.Fatalf("expected 2 Milano math teachers, got %d", len(byPrice))
	}
	if byPrice[0].UserID != cheap.UserID || byPrice[1].UserID != pricey.UserID {
		t.Fatalf("price ordering wrong: got %v then %v", byPrice[0].HourlyPrice, byPrice[1].HourlyPrice)
	}

	if _, err := FindTeachers("math", "Milano", nil, nil, "alphabet"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for an unknown order, got %v", err)
	}
}

func TestFindTeachersByStarsAndDateRange(t *testing.T) {
	setupTestDB(t)
	rated := createTeacher(t, "nina", "Milano", 40, "math")
	createTeacher(t, "marco", "Milano", 20, "math")
	student := createStudent(t, "carlo")

	if _, err := RateTeacher(student.ID, rated.UserID, 5); err != nil {
		t.Fatalf("failed to rate teacher: %v", err)
	}

	byStars, err := FindTeachers("math", "Milano", nil, nil, "stars")
	if err != nil {
		t.Fatalf("failed to search teachers: %v", err)
	}
	if len(byStars) != 2 || byStars[0].UserID != rated.UserID {
		t.Fatalf("star ordering wrong, rated teacher should come first")
	}

	// Only the rated teacher has availability tomorrow.
	slotDate := futureTime(t, 24*time.Hour)
	publishSlot(t, rated.UserID, slotDate)

	from := slotDate
	to := slotDate
	available, err := FindTeachers("math", "Milano", &from, &to, "stars")
	if err != nil {
		t.Fatalf("failed to search with a date range: %v", err)
	}
	if len(available) != 1 || available[0].UserID != rated.UserID {
		t.Fatalf("date range should keep only teachers with slots, got %d result(s)", len(available))
	}
}

func TestListLessonsBothRoles(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	slot := publishSlot(t, teacher.UserID, futureTime(t, 48*time.Hour))

	if _, err := BookLesson(student.ID, slot.ID, "math"); err != nil {
		t.Fatalf("failed to book lesson: %v", err)
	}

	asStudent, err := ListLessons(student.ID)
	if err != nil {
		t.Fatalf("failed to list lessons: %v", err)
	}
	asTeacher, err := ListLessons(teacher.UserID)
	if err != nil {
		t.Fatalf("failed to list lessons: %v", err)
	}
	if len(asStudent) != 1 || len(asTeacher) != 1 {
		t.Fatalf("both parties should see the lesson, got %d and %d", len(asStudent), len(asTeacher))
	}
}
