// Package notify canal de notificaciones en tiempo real: hub en proceso y réplica vía Redis.
package notify

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// DefaultQueueSize mensajes en cola por conexión antes de descartar.
const DefaultQueueSize = 32

// EventNotification nombre del evento que recibe el cliente.
const EventNotification = "notification"

// ErrRoomForbidden el usuario no puede unirse a la sala solicitada.
var ErrRoomForbidden = errors.New("notify: sala no permitida")

// Envelope mensaje escrito en el socket.
type Envelope struct {
	Event string              `json:"event"`
	Data  entity.Notification `json:"data"`
}

// Client una conexión suscrita.
type Client struct {
	UserID string
	Role   string

	send  chan Envelope
	rooms map[string]struct{} // protegido por Hub.mu
}

// Send cola de salida; se cierra al dar de baja el cliente.
func (c *Client) Send() <-chan Envelope { return c.send }

// Hub reparte notificaciones entre conexiones locales. Entrega at-most-once:
// si la cola de un cliente está llena el mensaje se descarta para ese cliente.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	queueSize   int
	dropped     prometheus.Counter
	connections prometheus.Gauge
	log         *logger.Logger
}

var _ ports.NotificationPublisher = (*Hub)(nil)

// Option configura el Hub.
type Option func(*Hub)

// WithQueueSize tamaño de la cola por cliente.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithMetrics contadores de descartes y gauge de conexiones.
func WithMetrics(dropped prometheus.Counter, connections prometheus.Gauge) Option {
	return func(h *Hub) {
		h.dropped = dropped
		h.connections = connections
	}
}

// NewHub crea un hub vacío.
func NewHub(log *logger.Logger, opts ...Option) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		clients:   make(map[*Client]struct{}),
		rooms:     make(map[string]map[*Client]struct{}),
		queueSize: DefaultQueueSize,
		log:       log.Component("notify"),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register da de alta una conexión y la une a la sala de su usuario.
func (h *Hub) Register(userID, role string) *Client {
	c := &Client{
		UserID: userID,
		Role:   role,
		send:   make(chan Envelope, h.queueSize),
		rooms:  make(map[string]struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.joinLocked(c, entity.UserRoom(userID))
	h.mu.Unlock()
	if h.connections != nil {
		h.connections.Inc()
	}
	h.log.Debug().Str("user_id", userID).Msg("cliente conectado")
	return c
}

// Unregister da de baja la conexión y cierra su cola. Idempotente.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	close(c.send)
	h.mu.Unlock()
	if h.connections != nil {
		h.connections.Dec()
	}
	h.log.Debug().Str("user_id", c.UserID).Msg("cliente desconectado")
}

// CanJoinRoom STAFF solo su propia sala; ADMIN cualquier sala de usuario.
func CanJoinRoom(userID, role, room string) bool {
	if !strings.HasPrefix(room, "user-") || len(room) == len("user-") {
		return false
	}
	if role == entity.RoleAdmin {
		return true
	}
	return room == entity.UserRoom(userID)
}

// Join une el cliente a room si su rol lo permite.
func (h *Hub) Join(c *Client, room string) error {
	if !CanJoinRoom(c.UserID, c.Role, room) {
		return ErrRoomForbidden
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.joinLocked(c, room)
	}
	return nil
}

// Leave saca el cliente de room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) joinLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Emit entrega n a las conexiones del alcance. Nunca bloquea.
func (h *Hub) Emit(_ context.Context, scope entity.NotificationScope, n entity.Notification) error {
	env := Envelope{Event: EventNotification, Data: n}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var targets map[*Client]struct{}
	if scope.IsBroadcast() {
		targets = h.clients
	} else {
		targets = h.rooms[scope.Room()]
	}
	for c := range targets {
		select {
		case c.send <- env:
		default:
			if h.dropped != nil {
				h.dropped.Inc()
			}
			h.log.Warn().Str("user_id", c.UserID).Str("type", n.Type).Msg("cola llena, notificación descartada")
		}
	}
	return nil
}

// Connections número de conexiones activas.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
