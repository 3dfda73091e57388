package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating holds one student's stars for one teacher. Upsert semantics: at most
// one row per (student, teacher) pair, enforced by the unique index.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_student_teacher" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_student_teacher" json:"teacher_id"`
	Stars     int       `gorm:"not null" json:"stars"`

	Student User `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
