package ws

import (
	"net/http"
	"strconv"
	"strings"

	"talent-bridge/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	log      logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// HandleMatchesWS subscribes the connection to run events. The optional
// project_id query parameter takes a comma separated list of project ids.
func (h *Handler) HandleMatchesWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	projects, err := ParseProjectFilter(c.Query("project_id"))
	if err != nil {
		return err
	}

	upgrade := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("ws upgrade failed", map[string]interface{}{"error": err})
			return
		}

		client := NewClient(h.hub, conn, projects...)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})
	return upgrade(c)
}

func ParseProjectFilter(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid project_id filter")
		}
		out = append(out, id)
	}
	return out, nil
}
