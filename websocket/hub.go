package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	ChatID uuid.UUID
	Conn   *websocket.Conn
}

// Event is what the transport fans out to every connection in a chat group.
// Fired exactly once per committed state change, after persistence succeeds.
type Event struct {
	Type      string      `json:"type"` // "message_sent" or "message_read"
	ChatID    uuid.UUID   `json:"chat_id"`
	MessageID uuid.UUID   `json:"message_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

var groups = make(map[uuid.UUID]map[*websocket.Conn]uuid.UUID)
var groupsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *Event, 64)

func init() {
	go RunHub()
}

// Publish hands an event to the hub without blocking the caller. Delivery is
// at-most-once best effort; persisted state is the source of truth.
func Publish(event *Event) {
	select {
	case Broadcast <- event:
	default:
		log.Printf("Dropping realtime event for chat %s: hub backlog full", event.ChatID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			groupsMu.Lock()
			if groups[client.ChatID] == nil {
				groups[client.ChatID] = make(map[*websocket.Conn]uuid.UUID)
			}
			groups[client.ChatID][client.Conn] = client.UserID
			groupsMu.Unlock()
			log.Printf("Client %s joined chat group %s", client.UserID, client.ChatID)

		case client := <-Unregister:
			groupsMu.Lock()
			if conns, ok := groups[client.ChatID]; ok {
				delete(conns, client.Conn)
				if len(conns) == 0 {
					delete(groups, client.ChatID)
				}
			}
			groupsMu.Unlock()
			log.Printf("Client %s left chat group %s", client.UserID, client.ChatID)

		case event := <-Broadcast:
			groupsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(groups[event.ChatID]))
			for conn := range groups[event.ChatID] {
				conns = append(conns, conn)
			}
			groupsMu.RUnlock()

			for _, conn := range conns {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to chat %s: %v", event.ChatID, err)
					conn.Close()
					groupsMu.Lock()
					if members, ok := groups[event.ChatID]; ok {
						delete(members, conn)
					}
					groupsMu.Unlock()
				}
			}
		}
	}
}
