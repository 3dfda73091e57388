package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message ordering is by CreatedAt ascending; that is the canonical replay
// order for clients re-syncing after a reconnect.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID   uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Read     bool      `gorm:"not null;default:false" json:"read"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Chat   Chat `gorm:"foreignKey:ChatID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
