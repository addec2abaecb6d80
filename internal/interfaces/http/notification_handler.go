package http

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/notify"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

const (
	wsPingInterval = 30 * time.Second
	wsPongWait     = 2 * wsPingInterval
	wsWriteWait    = 10 * time.Second
)

// Eventos que envía el cliente por el socket.
const (
	eventJoinRoom  = "join-room"
	eventLeaveRoom = "leave-room"
)

type clientEvent struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

type roomReply struct {
	Event   string `json:"event"`
	Room    string `json:"room,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotificationHandler canal en tiempo real y endpoints auxiliares.
type NotificationHandler struct {
	hub       *notify.Hub
	publisher ports.NotificationPublisher
	log       *logger.Logger
}

// NewNotificationHandler construye el handler. publisher es el mismo que usan los casos de uso.
func NewNotificationHandler(hub *notify.Hub, publisher ports.NotificationPublisher, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{hub: hub, publisher: publisher, log: log.Component("ws")}
}

// SendTest envía una notificación "system" a la sala del usuario.
// POST /api/notifications/test
func (h *NotificationHandler) SendTest(c *fiber.Ctx) error {
	n := entity.Notification{
		Type:    entity.NotificationSystem,
		Message: "Notificación de prueba",
		Data:    map[string]any{"sentAt": time.Now().UTC().Format(time.RFC3339)},
	}
	if err := h.publisher.Emit(c.Context(), entity.UserScope(GetUserID(c)), n); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "notificación enviada"})
}

// Clear las notificaciones no se persisten; solo confirma.
// DELETE /api/notifications
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Success: true})
}

// RequireUpgrade rechaza peticiones a /ws que no sean upgrade de websocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Socket GET /ws. El socket entra a la sala de su usuario al conectar.
func (h *NotificationHandler) Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		role, _ := conn.Locals(LocalRole).(string)

		client := h.hub.Register(userID, role)
		replies := make(chan roomReply, 4)
		done := make(chan struct{})
		writerDone := make(chan struct{})

		go func() {
			defer close(writerDone)
			h.writeLoop(conn, client, replies, done)
		}()
		h.readLoop(conn, client, replies)

		close(done)
		h.hub.Unregister(client)
		<-writerDone
	})
}

func (h *NotificationHandler) readLoop(conn *websocket.Conn, client *notify.Client, replies chan<- roomReply) {
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		var reply roomReply
		switch ev.Event {
		case eventJoinRoom:
			if err := h.hub.Join(client, ev.Room); err != nil {
				reply = roomReply{Event: "error", Room: ev.Room, Message: "no puedes unirte a esta sala"}
			} else {
				reply = roomReply{Event: "joined", Room: ev.Room}
			}
		case eventLeaveRoom:
			h.hub.Leave(client, ev.Room)
			reply = roomReply{Event: "left", Room: ev.Room}
		default:
			continue
		}
		select {
		case replies <- reply:
		default:
		}
	}
}

func (h *NotificationHandler) writeLoop(conn *websocket.Conn, client *notify.Client, replies <-chan roomReply, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		var payload any
		select {
		case <-done:
			return
		case env, ok := <-client.Send():
			if !ok {
				return
			}
			payload = env
		case r := <-replies:
			payload = r
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(payload); err != nil {
			h.log.Debug().Err(err).Str("user_id", client.UserID).Msg("escritura en socket")
			_ = conn.Close()
			return
		}
	}
}
