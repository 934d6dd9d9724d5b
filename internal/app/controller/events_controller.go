package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/minhvt/hosodoc-backend/internal/errors"
	"github.com/minhvt/hosodoc-backend/internal/events"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://hosodoc.vn":      true,
			"http://localhost:5173":   true, // môi trường dev
			"http://localhost:3000":   true, // môi trường dev
		}
		return allowedOrigins[origin]
	},
}

type EventsController struct {
	hub *events.Hub
}

func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{
		hub: hub,
	}
}

// WebSocketHandler mở kênh nhận sự kiện thay đổi dữ liệu
// GET /api/v1/ws
// Token nhận qua query parameter nhưng không được ghi log
func (ctrl *EventsController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// middleware đã xác thực xong
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Vui lòng đăng nhập")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &events.Client{
		Hub:    ctrl.hub,
		Conn:   &events.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
