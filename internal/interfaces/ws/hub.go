// Package ws difunde a los clientes conectados los cambios de stock ya confirmados.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

// Client lo mínimo que el hub necesita de una conexión (websocket.Conn lo cumple).
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const broadcastBuffer = 256

// Hub registro de clientes y cola de difusión. Un solo goroutine (Run) escribe a los clientes.
type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	mu         sync.Mutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		log:        log.Component("ws_hub"),
	}
}

// Run atiende registros y difusiones hasta que ctx termina; al salir cierra todos los clientes.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish encola el evento para difusión. Nunca bloquea al motor: si la cola está llena, se descarta
// (los clientes también refrescan por sondeo).
func (h *Hub) Publish(evt inventory.StockEvent) {
	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("action", evt.Action).Msg("cola ws llena, evento descartado")
	}
}

// ClientCount número de clientes conectados.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Attach registra un cliente. Bloquea hasta que Run lo acepte o ctx termine.
func (h *Hub) Attach(ctx context.Context, c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// Detach quita un cliente.
func (h *Hub) Detach(ctx context.Context, c Client) {
	select {
	case h.unregister <- c:
	case <-ctx.Done():
	}
}

// Upgrade middleware que rechaza con 426 lo que no sea un upgrade websocket.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler endpoint /ws. Los mensajes del cliente se leen y se ignoran; solo mantienen viva la conexión.
func (h *Hub) Handler(ctx context.Context) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.Attach(ctx, c) {
			_ = c.Close()
			return
		}
		defer h.Detach(ctx, c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
