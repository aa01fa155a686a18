package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dashpos/internal/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Handler struct {
	hub      *Hub
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHandler(hub *Hub, tokens *auth.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards run on a different origin than the API.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard/:business_id", h.serve(ChannelDashboard))
	rg.GET("/kds/:business_id", h.serve(ChannelKDS))
}

// serve upgrades the connection after checking the token, which browsers pass
// as a query parameter since websocket clients cannot set headers.
func (h *Handler) serve(channel string) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID := c.Param("business_id")
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
			return
		}
		claims, err := h.tokens.Validate(token, "access")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if !auth.HasBusinessRole(claims, businessID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "no access to this business"})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		cl := h.hub.register(businessID, channel)
		go h.writePump(conn, cl)
		go h.readPump(conn, cl)
	}
}

func (h *Handler) writePump(conn *websocket.Conn, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.hub.unregister(cl)
				return
			}
		case <-cl.pings:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(map[string]string{"type": "pong"}); err != nil {
				h.hub.unregister(cl)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.unregister(cl)
				return
			}
		}
	}
}

// readPump drains the connection so pings and close frames are processed.
// The only inbound payload honored is {"type":"ping"}, answered with a pong
// through the write pump.
func (h *Handler) readPump(conn *websocket.Conn, cl *client) {
	defer func() {
		h.hub.unregister(cl)
		_ = conn.Close()
	}()

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(msg, &in) == nil && in.Type == "ping" {
			select {
			case cl.pings <- struct{}{}:
			default:
			}
		}
	}
}
