package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_teacher_date" json:"teacher_id"`
	Subject   string    `gorm:"size:50;not null" json:"subject"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_lesson_teacher_date" json:"date"`

	Student User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Teacher User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
