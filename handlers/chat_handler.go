package handlers

import (
	"errors"
	"fmt"
	"log"

	config "github.com/findlessons/backend/configs"
	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/services"
	ws "github.com/findlessons/backend/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type StartChatRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
}

func StartChat(c *fiber.Ctx) error {
	callerID := currentProfileID(c)

	var req StartChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	recipientID, _ := uuid.Parse(req.RecipientID)

	chat, err := services.StartOrReopenChat(callerID, recipientID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

func GetMyChats(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	entries, err := services.ListVisibleChats(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entries)
}

// GetChatMessages returns the chat history in replay order, marking every
// message from the other participant as read, like opening the chat view.
func GetChatMessages(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	if err := services.MarkChatRead(chatID, profileID); err != nil {
		return serviceError(c, err)
	}
	messages, err := services.ChatMessages(chatID, profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(messages)
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

func SendChatMessage(c *fiber.Ctx) error {
	senderID := currentProfileID(c)

	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	message, err := services.SendMessage(chatID, senderID, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func MarkChatRead(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	if err := services.MarkChatRead(chatID, profileID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func DeleteChat(c *fiber.Ctx) error {
	profileID := currentProfileID(c)

	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	if err := services.SoftDeleteChat(chatID, profileID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type wsInbound struct {
	Type      string `json:"type"` // "auth", "message" or "read"
	Token     string `json:"token,omitempty"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// ServeWs attaches a connection to one chat group. The first frame must be an
// auth message carrying a JWT; afterwards the client sends messages and read
// receipts for that chat.
func ServeWs(c *websocketcontrib.Conn) {
	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid chat id"})
		c.Close()
		return
	}

	var authMsg wsInbound
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	var isParticipant int64
	database.DB.Table("chat_participants").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&isParticipant)
	if isParticipant == 0 {
		_ = c.WriteJSON(fiber.Map{"error": "You can only access your own chats"})
		c.Close()
		return
	}

	client := &ws.Client{UserID: userID, ChatID: chatID, Conn: c}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		c.Close()
	}()

	for {
		var msg wsInbound
		if err := c.ReadJSON(&msg); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}

		switch msg.Type {
		case "message":
			if _, err := services.SendMessage(chatID, userID, msg.Content); err != nil {
				_ = c.WriteJSON(fiber.Map{"error": err.Error()})
			}
		case "read":
			messageID, err := uuid.Parse(msg.MessageID)
			if err != nil {
				_ = c.WriteJSON(fiber.Map{"error": "Invalid message id"})
				continue
			}
			if err := services.MarkMessageRead(messageID); err != nil {
				_ = c.WriteJSON(fiber.Map{"error": err.Error()})
			}
		default:
			_ = c.WriteJSON(fiber.Map{"error": "Unknown message type"})
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
