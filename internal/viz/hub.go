// Package viz streams obstacle layouts to websocket viewers.
package viz

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
)

// ProtocolVersion is stamped on every server message.
const ProtocolVersion = 1

const writeWait = 5 * time.Second

type layoutMessage struct {
	Ver    int                `json:"ver"`
	Type   string             `json:"type"`
	Layout obstacles.Snapshot `json:"layout"`
}

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// WriteMessage serializes writes; gorilla connections allow one writer.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// Hub fans layout snapshots out to every connected viewer and remembers the
// latest one for late joiners.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	latest      []byte
	logger      telemetry.Logger
	metrics     telemetry.Metrics
}

func NewHub(logger telemetry.Logger, metrics telemetry.Metrics) *Hub {
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      logger,
		metrics:     metrics,
	}
}

// Subscribe registers conn under id, replacing any earlier connection with
// the same id, and returns the latest encoded layout (nil before the first
// broadcast).
func (h *Hub) Subscribe(id string, conn *websocket.Conn) (*subscriber, []byte) {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	previous := h.subscribers[id]
	h.subscribers[id] = sub
	latest := h.latest
	count := len(h.subscribers)
	h.mu.Unlock()

	if previous != nil {
		previous.conn.Close()
	}
	h.metrics.Store(telemetry.KeyVizSubscribers, uint64(count))
	return sub, latest
}

// Unsubscribe drops id if sub is still its registered connection.
func (h *Hub) Unsubscribe(id string, sub *subscriber) {
	h.mu.Lock()
	if current, ok := h.subscribers[id]; ok && (sub == nil || current == sub) {
		delete(h.subscribers, id)
	}
	count := len(h.subscribers)
	h.mu.Unlock()
	h.metrics.Store(telemetry.KeyVizSubscribers, uint64(count))
}

// Subscribers reports how many viewers are connected.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast encodes snap and sends it to every viewer. Viewers that fail to
// receive it are disconnected.
func (h *Hub) Broadcast(snap obstacles.Snapshot) error {
	data, err := json.Marshal(layoutMessage{Ver: ProtocolVersion, Type: "layout", Layout: snap})
	if err != nil {
		return errors.Wrap(err, "viz: encode layout")
	}

	h.mu.Lock()
	h.latest = data
	targets := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		targets[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range targets {
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("viz: dropping viewer %s: %v", id, err)
			h.Unsubscribe(id, sub)
			sub.conn.Close()
			continue
		}
		h.metrics.Add(telemetry.KeyVizBytes, uint64(len(data)))
	}
	return nil
}
