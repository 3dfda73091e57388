package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilitySlot is a published, unbooked time unit a teacher offers.
// Its existence means "bookable"; booking deletes it.
type AvailabilitySlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_slot_teacher_date" json:"teacher_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_slot_teacher_date" json:"date"`

	Teacher User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
