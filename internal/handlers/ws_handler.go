package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"smart-assistant-api/internal/chat"
	"smart-assistant-api/internal/models"
	"smart-assistant-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// Writes are serialized because hub broadcasts and chat replies race.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled at the gin level; allow upgrade from any origin
		return true
	},
}

// inboundChatEvent is the frame the client sends for a conversation turn.
type inboundChatEvent struct {
	Message string `json:"message"`
}

// WSHandler upgrades connections, registers them with the hub for task-event
// pushes, and answers inbound chat frames through the intent router.
type WSHandler struct {
	hub    *realtime.Hub
	router *chat.Router
	log    *zap.Logger

	// replyDelay simulates assistant latency before each reply. It carries
	// no ordering guarantee beyond "reply follows request on the same
	// connection".
	replyDelay func() time.Duration
}

// NewWSHandler constructs a websocket handler with the default artificial
// reply delay of 500-2000ms.
func NewWSHandler(hub *realtime.Hub, router *chat.Router, rng *rand.Rand, log *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		router: router,
		log:    log,
		replyDelay: func() time.Duration {
			return 500*time.Millisecond + time.Duration(rng.Float64()*1500)*time.Millisecond
		},
	}
}

// Handle serves GET /ws. The userId query param selects the room; this
// deployment only ever has the demo user.
func (h *WSHandler) Handle(c *gin.Context) {
	userID := models.DemoUserID
	if raw := c.Query("userId"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			userID = uint(parsed)
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn}
	h.hub.Register(userID, client)
	h.log.Info("websocket client connected", zap.Uint("user_id", userID))

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		h.hub.Unregister(userID, client)
		client.Close()
		h.log.Info("websocket client disconnected", zap.Uint("user_id", userID))
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event inboundChatEvent
		if err := json.Unmarshal(data, &event); err != nil || event.Message == "" {
			h.sendJSON(client, gin.H{"error": "Expected a {\"message\": ...} frame"})
			continue
		}

		time.Sleep(h.replyDelay())
		reply := h.router.Respond(event.Message)
		h.sendJSON(client, gin.H{
			"id":        time.Now().UnixMilli(),
			"message":   reply,
			"timestamp": time.Now().Format(time.RFC3339),
			"type":      "ai",
		})
	}
}

func (h *WSHandler) sendJSON(client *wsClient, payload gin.H) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if !client.Send(data) {
		h.log.Warn("websocket write failed; reply dropped")
	}
}
