package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility is the per-participant soft-delete flag on a chat. One row per
// (chat, participant), created the moment the participant joins the chat.
// A chat is hard-deleted once every row is false.
type Visibility struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_visibility_chat_participant" json:"chat_id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_visibility_chat_participant" json:"participant_id"`
	Visible       bool      `gorm:"not null;default:true" json:"visible"`

	Participant User `gorm:"foreignKey:ParticipantID" json:"-"`
}

func (v *Visibility) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
