package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/minhvt/hosodoc-backend/pkg/logger"
)

// Loại sự kiện thay đổi dữ liệu phát cho client đang kết nối.
// Client dùng sự kiện để refetch sớm thay vì chờ chu kỳ polling.
const (
	EventBusinessCreated    = "business_created"
	EventBusinessUpdated    = "business_updated"
	EventBusinessDeleted    = "business_deleted"
	EventTransactionCreated = "transaction_created"
	EventTransactionUpdated = "transaction_updated"
	EventTransactionDeleted = "transaction_deleted"
)

// Event sự kiện thay đổi dữ liệu
type Event struct {
	Type       string    `json:"type"`
	BusinessID uint      `json:"business_id,omitempty"`
	EntityID   uint      `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Client một kết nối WebSocket đã đăng ký nhận sự kiện
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub quản lý các kết nối và phát sự kiện tới tất cả client.
// Khác chat: không có khái niệm phòng, mọi client nhận mọi sự kiện.
type Hub struct {
	clients map[uint][]*Client // UserID -> sessions, hỗ trợ nhiều thiết bị

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run chạy vòng lặp chính của hub, gọi trong goroutine riêng
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Event client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Event client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
					default:
						// Send đầy, ngắt kết nối để client tự reconnect
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish phát sự kiện tới mọi client. Kênh đầy thì bỏ qua: client vẫn
// bắt kịp qua chu kỳ polling kế tiếp nên mất sự kiện không gây sai dữ liệu.
func (h *Hub) Publish(eventType string, businessID, entityID uint) {
	event := Event{
		Type:       eventType,
		BusinessID: businessID,
		EntityID:   entityID,
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
}

// Register đăng ký client mới
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister hủy đăng ký client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline kiểm tra user còn phiên kết nối nào không
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
