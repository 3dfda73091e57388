package models

import (
	"time"

	"github.com/google/uuid"
)

type Teacher struct {
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	City        string     `gorm:"size:100;not null;default:''" json:"city"`
	HourlyPrice float64    `gorm:"type:numeric(10,2);not null;default:0.00" json:"hourly_price"`
	Stars       float64    `gorm:"not null;default:0" json:"stars"`
	Subjects    []*Subject `gorm:"many2many:teacher_subjects;" json:"subjects"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// TeachesSubject reports whether name matches one of the teacher's subjects,
// case-insensitively. Subjects must be preloaded.
func (t *Teacher) TeachesSubject(name string) bool {
	for _, s := range t.Subjects {
		if equalFold(s.Name, name) {
			return true
		}
	}
	return false
}
