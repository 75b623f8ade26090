// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"moim/internal/service/recommend"
)

// progressClient streams pipeline progress events for one meeting to a
// WebSocket peer. The client only listens; inbound frames are discarded.
type progressClient struct {
	conn      *websocket.Conn
	send      chan []byte
	meetingID uuid.UUID
	sub       *nats.Subscription
	closeOnce sync.Once
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// MeetingProgressHandler upgrades the connection and relays the meeting's
// pipeline progress events from NATS until the peer disconnects.
func MeetingProgressHandler(natsConn *nats.Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid meeting ID", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}

		client := &progressClient{
			conn:      conn,
			send:      make(chan []byte, 64),
			meetingID: meetingID,
		}

		sub, err := natsConn.Subscribe(recommend.ProgressSubject(meetingID), func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Slow consumer; drop rather than block the NATS callback.
			}
		})
		if err != nil {
			slog.Error("progress subscription failed", "meeting_id", meetingID, "error", err)
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":       "connected",
			"meeting_id": meetingID,
			"time":       time.Now().UTC(),
		})
		client.send <- welcome

		slog.Info("progress stream opened", "meeting_id", meetingID)
	}
}

// readPump drains the connection so pings and close frames are processed.
func (c *progressClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.close()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "meeting_id", c.meetingID, "error", err)
			}
			return
		}
	}
}

// writePump forwards queued events and keeps the connection alive.
func (c *progressClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *progressClient) close() {
	c.closeOnce.Do(func() {
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		c.conn.Close()
	})
}
