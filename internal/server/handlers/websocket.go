// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kenyatrends/internal/adapter/events"
	"kenyatrends/internal/logger"
	"kenyatrends/internal/metrics"
)

// WebSocketClient is a dashboard connected for analysis events
type WebSocketClient struct {
	id           string
	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	subscription events.Subscription
	config       WebSocketConfig
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
		return true
	},
}

// AnalysisWebSocketHandler streams completed-analysis events to dashboards
func AnalysisWebSocketHandler(bus events.Bus, subject string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Failed to upgrade to WebSocket", zap.Error(err))
			return
		}

		client := &WebSocketClient{
			id:     uuid.New().String(),
			conn:   conn,
			send:   make(chan []byte, 64),
			done:   make(chan struct{}),
			config: DefaultWebSocketConfig(),
		}

		sub, err := bus.Subscribe(subject, client.enqueue)
		if err != nil {
			logger.Error("Failed to subscribe to analysis events", zap.Error(err))
			conn.Close()
			return
		}
		client.subscription = sub

		metrics.WebSocketClients.Inc()
		logger.Info("WebSocket client connected", zap.String("client_id", client.id))

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "welcome",
			"subject": subject,
			"time":    time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go client.readPump()
	}
}

// enqueue queues data for the client, dropping it when the buffer is full
func (c *WebSocketClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		logger.Warn("WebSocket client too slow, dropping event", zap.String("client_id", c.id))
	}
}

// readPump drains the connection so control frames are handled
func (c *WebSocketClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection unsubscribes and closes the connection once
func (c *WebSocketClient) closeConnection() {
	c.closeOnce.Do(func() {
		close(c.done)

		if c.subscription != nil {
			if err := c.subscription.Unsubscribe(); err != nil {
				logger.Warn("Failed to unsubscribe WebSocket client", zap.Error(err))
			}
		}

		c.conn.Close()
		metrics.WebSocketClients.Dec()
		logger.Info("WebSocket client disconnected", zap.String("client_id", c.id))
	})
}
