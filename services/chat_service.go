package services

import (
	"errors"
	"strings"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/findlessons/backend/notifications"
	"github.com/findlessons/backend/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errChatRaced = errors.New("chat creation raced")

// StartOrReopenChat returns the chat for the unordered (caller, other) pair,
// creating it with one visibility row per participant when it does not exist
// yet. On an existing chat only the caller's visibility is reopened. A racing
// creation by the other participant is absorbed by the unique pair key: the
// loser retries as a reopen.
func StartOrReopenChat(callerID, otherID uuid.UUID) (*models.Chat, error) {
	if callerID == otherID {
		return nil, validationErr("you cannot chat with yourself")
	}

	var caller, other models.User
	if err := database.DB.First(&caller, "id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("profile")
		}
		return nil, err
	}
	if err := database.DB.First(&other, "id = ?", otherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("recipient profile")
		}
		return nil, err
	}

	pairKey := models.ChatPairKey(callerID, otherID)

	var chat models.Chat
	for attempt := 0; attempt < 2; attempt++ {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Preload("Participants").Where("pair_key = ?", pairKey).First(&chat).Error
			if err == nil {
				return tx.Model(&models.Visibility{}).
					Where("chat_id = ? AND participant_id = ?", chat.ID, callerID).
					Update("visible", true).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			chat = models.Chat{
				PairKey:      pairKey,
				Participants: []*models.User{&caller, &other},
			}
			if err := tx.Create(&chat).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errChatRaced
				}
				return err
			}
			// One visibility row per participant, the instant they join.
			for _, p := range chat.Participants {
				v := models.Visibility{ChatID: chat.ID, ParticipantID: p.ID, Visible: true}
				if err := tx.Create(&v).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if errors.Is(err, errChatRaced) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &chat, nil
	}
	return nil, errChatRaced
}

// SendMessage persists a message from a participant, then fans it out to the
// chat group and notifies the other participant. Delivery is best effort;
// the persisted row is the source of truth.
func SendMessage(chatID, senderID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationErr("message content cannot be empty")
	}

	chat, err := loadChat(chatID)
	if err != nil {
		return nil, err
	}
	other, ok := chat.OtherParticipant(senderID)
	if !ok {
		return nil, permissionErr("only chat participants can send messages")
	}

	message := models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	websocket.Publish(&websocket.Event{
		Type:      "message_sent",
		ChatID:    chatID,
		MessageID: message.ID,
		Payload:   message,
	})

	for _, p := range chat.Participants {
		if p.ID == senderID {
			notifications.Append(other.ID, p.FullName()+" sent you a message")
			break
		}
	}

	return &message, nil
}

// MarkMessageRead flips the read flag. Idempotent: only the false→true
// transition is committed and broadcast.
func MarkMessageRead(messageID uuid.UUID) error {
	var message models.Message
	if err := database.DB.First(&message, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr("message")
		}
		return err
	}

	res := database.DB.Model(&models.Message{}).
		Where("id = ? AND read = ?", messageID, false).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		websocket.Publish(&websocket.Event{
			Type:      "message_read",
			ChatID:    message.ChatID,
			MessageID: message.ID,
		})
	}
	return nil
}

// MarkChatRead bulk-marks every message from the other participant as read.
func MarkChatRead(chatID, profileID uuid.UUID) error {
	chat, err := loadChat(chatID)
	if err != nil {
		return err
	}
	if _, ok := chat.OtherParticipant(profileID); !ok {
		return permissionErr("only chat participants can read messages")
	}

	var unreadIDs []uuid.UUID
	if err := database.DB.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, profileID, false).
		Pluck("id", &unreadIDs).Error; err != nil {
		return err
	}
	if len(unreadIDs) == 0 {
		return nil
	}

	if err := database.DB.Model(&models.Message{}).
		Where("id IN ?", unreadIDs).
		Update("read", true).Error; err != nil {
		return err
	}

	for _, id := range unreadIDs {
		websocket.Publish(&websocket.Event{
			Type:      "message_read",
			ChatID:    chatID,
			MessageID: id,
		})
	}
	return nil
}

// HasUnread reports whether any message from the other participant is unread.
func HasUnread(chatID, profileID uuid.UUID) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, profileID, false).
		Count(&count).Error
	return count > 0, err
}

// ChatMessages returns a chat's messages in canonical replay order. Only
// participants may fetch them.
func ChatMessages(chatID, profileID uuid.UUID) ([]models.Message, error) {
	chat, err := loadChat(chatID)
	if err != nil {
		return nil, err
	}
	if _, ok := chat.OtherParticipant(profileID); !ok {
		return nil, permissionErr("you can only access your own chats")
	}

	var messages []models.Message
	err = database.DB.
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

type ChatEntry struct {
	Chat             models.Chat  `json:"chat"`
	OtherParticipant *models.User `json:"other_participant"`
	Unread           bool         `json:"unread"`
}

// ListVisibleChats returns the chats a profile can see: those it has not
// soft-deleted, plus any chat with unread messages from the other side —
// an unread chat always resurfaces.
func ListVisibleChats(profileID uuid.UUID) ([]ChatEntry, error) {
	var user models.User
	if err := database.DB.Preload("Chats.Participants").
		First(&user, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("profile")
		}
		return nil, err
	}

	entries := []ChatEntry{}
	for _, chat := range user.Chats {
		unread, err := HasUnread(chat.ID, profileID)
		if err != nil {
			return nil, err
		}

		var visibility models.Visibility
		if err := database.DB.
			Where("chat_id = ? AND participant_id = ?", chat.ID, profileID).
			First(&visibility).Error; err != nil {
			return nil, err
		}
		if !visibility.Visible && !unread {
			continue
		}

		other, ok := chat.OtherParticipant(profileID)
		if !ok {
			continue
		}
		entries = append(entries, ChatEntry{Chat: *chat, OtherParticipant: other, Unread: unread})
	}
	return entries, nil
}

// SoftDeleteChat hides the chat for one participant. Once no participant can
// see it the chat is hard-deleted together with its messages and visibility
// rows, in one transaction.
func SoftDeleteChat(chatID, profileID uuid.UUID) error {
	chat, err := loadChat(chatID)
	if err != nil {
		return err
	}
	if _, ok := chat.OtherParticipant(profileID); !ok {
		return permissionErr("you can only delete your own chats")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Visibility{}).
			Where("chat_id = ? AND participant_id = ?", chatID, profileID).
			Update("visible", false).Error; err != nil {
			return err
		}

		var stillVisible int64
		if err := tx.Model(&models.Visibility{}).
			Where("chat_id = ? AND visible = ?", chatID, true).
			Count(&stillVisible).Error; err != nil {
			return err
		}
		if stillVisible > 0 {
			return nil
		}

		if err := tx.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.Visibility{}).Error; err != nil {
			return err
		}
		if err := tx.Model(chat).Association("Participants").Clear(); err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}

func loadChat(chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := database.DB.Preload("Participants").
		First(&chat, "id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("chat")
		}
		return nil, err
	}
	return &chat, nil
}
