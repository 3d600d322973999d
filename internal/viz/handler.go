package viz

import (
	"context"
	"encoding/json"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
)

type clientMessage struct {
	Type string `json:"type"`
}

// ResampleFunc lays out a new episode and returns its snapshot.
type ResampleFunc func(ctx context.Context) (obstacles.Snapshot, error)

type HandlerConfig struct {
	Logger telemetry.Logger
	// Resample serves "resample" requests from viewers. Nil ignores them.
	Resample ResampleFunc
}

type Handler struct {
	hub      *Hub
	logger   telemetry.Logger
	resample ResampleFunc
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = hub.logger
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		resample: cfg.Resample,
		upgrader: upgrader,
	}
}

// Handle upgrades the request and keeps the viewer subscribed until it
// disconnects. The optional id query parameter names the viewer.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	viewerID := r.URL.Query().Get("id")
	if viewerID == "" {
		viewerID = uuid.New().String()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("viz: upgrade failed for %s: %v", viewerID, err)
		return
	}

	sub, latest := h.hub.Subscribe(viewerID, conn)
	defer func() {
		h.hub.Unsubscribe(viewerID, sub)
		conn.Close()
	}()

	if latest != nil {
		if err := sub.WriteMessage(websocket.TextMessage, latest); err != nil {
			return
		}
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("viz: discarding malformed message from %s: %v", viewerID, err)
			continue
		}

		switch msg.Type {
		case "resample":
			if h.resample == nil {
				continue
			}
			snap, err := h.resample(r.Context())
			if err != nil {
				h.logger.Printf("viz: resample for %s failed: %v", viewerID, err)
				continue
			}
			if err := h.hub.Broadcast(snap); err != nil {
				h.logger.Printf("viz: broadcast failed: %v", err)
			}
		default:
			h.logger.Printf("viz: unknown message type %q from %s", msg.Type, viewerID)
		}
	}
}
