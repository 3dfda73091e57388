package services

import (
	"testing"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
)

func TestPublishAvailabilityRejectsPast(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")

	_, err := PublishAvailability(teacher.UserID, time.Now().Add(-time.Hour))
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for a past slot, got %v", err)
	}
}

func TestPublishAvailabilityOverlapWindow(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	base := futureTime(t, 48*time.Hour)

	publishSlot(t, teacher.UserID, base)

	if _, err := PublishAvailability(teacher.UserID, base.Add(30*time.Minute)); !IsValidation(err) {
		t.Fatalf("expected ValidationError 30 minutes after an existing slot, got %v", err)
	}
	if _, err := PublishAvailability(teacher.UserID, base.Add(-59*time.Minute)); !IsValidation(err) {
		t.Fatalf("expected ValidationError 59 minutes before an existing slot, got %v", err)
	}

	// Exactly one hour apart is legal.
	if _, err := PublishAvailability(teacher.UserID, base.Add(time.Hour)); err != nil {
		t.Fatalf("a slot exactly one hour later should be allowed, got %v", err)
	}
}

func TestPublishAvailabilityConflictsWithLesson(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	student := createStudent(t, "carlo")
	date := futureTime(t, 48*time.Hour)

	lesson := models.Lesson{StudentID: student.ID, TeacherID: teacher.UserID, Subject: "math", Date: date}
	if err := database.DB.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}

	if _, err := PublishAvailability(teacher.UserID, date.Add(45*time.Minute)); !IsValidation(err) {
		t.Fatalf("expected ValidationError inside a lesson's window, got %v", err)
	}
	if _, err := PublishAvailability(teacher.UserID, date.Add(time.Hour)); err != nil {
		t.Fatalf("a slot exactly one hour after a lesson should be allowed, got %v", err)
	}
}

func TestWithdrawAvailabilityOwnership(t *testing.T) {
	setupTestDB(t)
	owner := createTeacher(t, "nina", "Milano", 25, "math")
	intruder := createTeacher(t, "marco", "Roma", 30, "physics")
	slot := publishSlot(t, owner.UserID, futureTime(t, 24*time.Hour))

	if err := WithdrawAvailability(slot.ID, intruder.UserID); !IsPermission(err) {
		t.Fatalf("expected PermissionError for a foreign slot, got %v", err)
	}
	if err := WithdrawAvailability(slot.ID, owner.UserID); err != nil {
		t.Fatalf("owner should be able to withdraw the slot, got %v", err)
	}
	if err := WithdrawAvailability(slot.ID, owner.UserID); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for an already withdrawn slot, got %v", err)
	}
}

func TestListUpcomingAvailabilityOrdered(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")
	base := futureTime(t, 24*time.Hour)

	publishSlot(t, teacher.UserID, base.Add(4*time.Hour))
	publishSlot(t, teacher.UserID, base)
	publishSlot(t, teacher.UserID, base.Add(2*time.Hour))

	slots, err := ListUpcomingAvailability(teacher.UserID, time.Now(), base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("failed to list availability: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Date.Before(slots[i-1].Date) {
			t.Fatalf("slots are not ordered ascending: %v after %v", slots[i].Date, slots[i-1].Date)
		}
	}
}

func TestWithdrawAvailabilityUnknownSlot(t *testing.T) {
	setupTestDB(t)
	teacher := createTeacher(t, "nina", "Milano", 25, "math")

	if err := WithdrawAvailability(uuid.New(), teacher.UserID); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for an unknown slot, got %v", err)
	}
}
