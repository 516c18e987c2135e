package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/config"
	"github.com/x402pay/escrow-backend/internal/events"
	"go.uber.org/zap"
)

// WSHub pushes ledger events to connected parties. Events carrying
// client/server fields in their payload are delivered to those two
// parties only; anything else is broadcast.
type WSHub struct {
	cfg         *config.Config
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:         cfg,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*websocket.Conn),
	}
}

func (h *WSHub) Start(ctx context.Context) {
	_ = h.subscriber.Subscribe(ctx, events.StreamLedger, func(event events.Event) {
		h.dispatch(event)
	})
}

func (h *WSHub) dispatch(event events.Event) {
	client, _ := event.Payload["client"].(string)
	server, _ := event.Payload["server"].(string)
	if client == "" && server == "" {
		h.broadcast(event)
		return
	}
	h.SendToParty(client, event)
	h.SendToParty(server, event)
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.connections {
		for _, conn := range conns {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}
}

func (h *WSHub) SendToParty(party string, event events.Event) {
	if party == "" {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[party] {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	party := claims.Party

	h.mu.Lock()
	h.connections[party] = append(h.connections[party], conn)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		conns := h.connections[party]
		for i, c := range conns {
			if c == conn {
				h.connections[party] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.connections[party]) == 0 {
			delete(h.connections, party)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
