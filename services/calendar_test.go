package services

import (
	"testing"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
)

func TestCalendarViewSpansThreeWeeks(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")

	days, err := CalendarView(teacher.UserID, teacher.UserID)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}
	if len(days) != 21 {
		t.Fatalf("calendar should cover 21 days, got %d", len(days))
	}
	if days[0].Date.Weekday() != time.Monday {
		t.Fatalf("calendar should start on Monday, got %v", days[0].Date.Weekday())
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Date.Equal(days[i-1].Date.AddDate(0, 0, 1)) {
			t.Fatalf("days are not consecutive at index %d", i)
		}
	}
}

func TestCalendarViewBucketsAndOrdersEvents(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")

	// Anchor at 09:00 two days out so every event stays on the same day.
	anchor := time.Now().AddDate(0, 0, 2)
	date := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 9, 0, 0, 0, anchor.Location())
	publishSlot(t, teacher.UserID, date.Add(3*time.Hour))
	publishSlot(t, teacher.UserID, date)

	lesson := models.Lesson{
		StudentID: student.ID,
		TeacherID: teacher.UserID,
		Subject:   "math",
		Date:      date.Add(90 * time.Minute),
	}
	if err := database.DB.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}

	days, err := CalendarView(teacher.UserID, teacher.UserID)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}

	var events []CalendarEvent
	for _, day := range days {
		if day.Date.Day() == date.Day() && day.Date.Month() == date.Month() {
			events = day.Events
			break
		}
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events on the day, got %d", len(events))
	}
	if events[0].Type != "slot" || events[1].Type != "lesson" || events[2].Type != "slot" {
		t.Fatalf("events not ordered by time of day: %s, %s, %s",
			events[0].Type, events[1].Type, events[2].Type)
	}
	if events[1].Subject != "math" {
		t.Fatalf("lesson event should carry its subject, got %q", events[1].Subject)
	}
}

func TestCalendarViewHidesLessonsFromOthers(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")

	date := futureTime(t, 24*time.Hour)
	publishSlot(t, teacher.UserID, date)
	lesson := models.Lesson{
		StudentID: student.ID,
		TeacherID: teacher.UserID,
		Subject:   "math",
		Date:      date.Add(4 * time.Hour),
	}
	if err := database.DB.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}

	countEvents := func(days []CalendarDay, eventType string) int {
		n := 0
		for _, day := range days {
			for _, ev := range day.Events {
				if ev.Type == eventType {
					n++
				}
			}
		}
		return n
	}

	ownView, err := CalendarView(teacher.UserID, teacher.UserID)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}
	if countEvents(ownView, "lesson") != 1 {
		t.Fatal("the teacher should see their own lessons")
	}

	publicView, err := CalendarView(teacher.UserID, student.ID)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}
	if countEvents(publicView, "lesson") != 0 {
		t.Fatal("lessons must be hidden from other viewers")
	}
	if countEvents(publicView, "slot") != 1 {
		t.Fatal("slots stay visible to every viewer")
	}
}
