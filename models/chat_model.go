package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat links exactly two participants. PairKey is the lexicographically
// ordered participant id pair; its unique index rejects a racing duplicate
// creation at the store level.
type Chat struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PairKey string    `gorm:"size:80;not null;unique" json:"-"`

	Participants []*User   `gorm:"many2many:chat_participants;" json:"participants"`
	Messages     []Message `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChatPairKey builds the canonical key for an unordered participant pair.
func ChatPairKey(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}
	return first + ":" + second
}

// OtherParticipant returns the participant that is not the given profile.
// The second return value is false when the profile is not a participant or
// the chat is degenerate. Participants must be preloaded.
func (c *Chat) OtherParticipant(profileID uuid.UUID) (*User, bool) {
	if len(c.Participants) != 2 {
		return nil, false
	}
	var other *User
	found := false
	for _, p := range c.Participants {
		if p.ID == profileID {
			found = true
		} else {
			other = p
		}
	}
	if !found || other == nil {
		return nil, false
	}
	return other, true
}
