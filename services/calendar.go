package services

import (
	"sort"
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
)

const calendarDays = 21 // three Monday-aligned weeks

type CalendarEvent struct {
	Type    string    `json:"type"` // "slot" or "lesson"
	ID      uuid.UUID `json:"id"`
	Time    string    `json:"time"` // HH:MM, time of day
	Subject string    `json:"subject,omitempty"`
	Future  bool      `json:"future"`

	at time.Time
}

type CalendarDay struct {
	Date   time.Time       `json:"date"`
	Events []CalendarEvent `json:"events"`
}

// CalendarView merges the teacher's slots, and lessons when the viewer is the
// teacher, into per-day buckets covering three weeks starting from the Monday
// of the current week. Events within a day are ordered by time of day.
func CalendarView(teacherID, viewerID uuid.UUID) ([]CalendarDay, error) {
	now := time.Now()
	start := startOfWeek(now)
	end := start.AddDate(0, 0, calendarDays)

	var slots []models.AvailabilitySlot
	if err := database.DB.
		Where("teacher_id = ? AND date >= ? AND date < ?", teacherID, start, end).
		Find(&slots).Error; err != nil {
		return nil, err
	}

	var lessons []models.Lesson
	if viewerID == teacherID {
		if err := database.DB.
			Where("teacher_id = ? AND date >= ? AND date < ?", teacherID, start, end).
			Find(&lessons).Error; err != nil {
			return nil, err
		}
	}

	days := make([]CalendarDay, calendarDays)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
		days[i].Events = []CalendarEvent{}
	}

	add := func(ev CalendarEvent) {
		i := int(ev.at.Sub(start).Hours() / 24)
		if i < 0 || i >= calendarDays {
			return
		}
		days[i].Events = append(days[i].Events, ev)
	}

	for _, s := range slots {
		add(CalendarEvent{
			Type:   "slot",
			ID:     s.ID,
			Time:   s.Date.Format("15:04"),
			Future: s.Date.After(now),
			at:     s.Date,
		})
	}
	for _, l := range lessons {
		add(CalendarEvent{
			Type:    "lesson",
			ID:      l.ID,
			Time:    l.Date.Format("15:04"),
			Subject: l.Subject,
			Future:  l.Date.After(now),
			at:      l.Date,
		})
	}

	for i := range days {
		evs := days[i].Events
		sort.Slice(evs, func(a, b int) bool { return evs[a].at.Before(evs[b].at) })
	}

	return days, nil
}

// startOfWeek returns the Monday 00:00 of t's week, in t's location.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}
