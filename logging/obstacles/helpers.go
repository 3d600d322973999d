package obstacles

import (
	"context"

	"github.com/SumeetBatra/quad-swarm-rl/logging"
)

const (
	// EventLayoutGenerated is emitted after an episode reset places obstacles.
	EventLayoutGenerated logging.EventType = "obstacles.layout_generated"
	// EventPlacementExhausted is emitted when a retry budget ran out and a
	// pillar was kept despite crowding a zone or touching another pillar.
	EventPlacementExhausted logging.EventType = "obstacles.placement_exhausted"
	// EventCollision is emitted when agents touch obstacles during a step.
	EventCollision logging.EventType = "obstacles.collision"
)

// LayoutGeneratedPayload summarizes a reset layout.
type LayoutGeneratedPayload struct {
	Mode     string      `json:"mode"`
	Scenario string      `json:"scenario,omitempty"`
	Level    int         `json:"level"`
	Count    int         `json:"count"`
	Height   float64     `json:"height"`
	Shapes   []string    `json:"shapes,omitempty"`
	Centers  [][]float64 `json:"centers,omitempty"`
}

// PlacementExhaustedPayload reports how many pillars kept an imperfect spot.
type PlacementExhaustedPayload struct {
	Level           int `json:"level"`
	ClearanceMisses int `json:"clearanceMisses"`
	OverlapMisses   int `json:"overlapMisses"`
}

// CollisionPayload lists the agents in contact on a step.
type CollisionPayload struct {
	Agents []int `json:"agents"`
	Pairs  int   `json:"pairs"`
}

// LayoutGenerated publishes a layout summary.
func LayoutGenerated(ctx context.Context, pub logging.Publisher, episode uint64, actor logging.EntityRef, payload LayoutGeneratedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventLayoutGenerated,
		Episode:  episode,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLayout,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// PlacementExhausted publishes a retry-budget warning.
func PlacementExhausted(ctx context.Context, pub logging.Publisher, episode uint64, actor logging.EntityRef, payload PlacementExhaustedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPlacementExhausted,
		Episode:  episode,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryLayout,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Collision publishes agent/obstacle contacts for a tick.
func Collision(ctx context.Context, pub logging.Publisher, episode, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload CollisionPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventCollision,
		Episode:  episode,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCollision,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
