package obstacles

import (
	"context"
	"testing"

	"github.com/SumeetBatra/quad-swarm-rl/logging"
)

type capturePublisher struct {
	events []logging.Event
}

func (c *capturePublisher) Publish(_ context.Context, event logging.Event) {
	c.events = append(c.events, event)
}

func TestLayoutGenerated(t *testing.T) {
	pub := &capturePublisher{}
	actor := logging.EntityRef{ID: "set-1", Kind: logging.EntityKindSet}
	LayoutGenerated(context.Background(), pub, 3, actor, LayoutGeneratedPayload{Mode: "static_pillar", Count: 6}, nil)

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	event := pub.events[0]
	if event.Type != EventLayoutGenerated {
		t.Fatalf("unexpected type %q", event.Type)
	}
	if event.Episode != 3 || event.Severity != logging.SeverityInfo || event.Category != logging.CategoryLayout {
		t.Fatalf("unexpected envelope %+v", event)
	}
	payload, ok := event.Payload.(LayoutGeneratedPayload)
	if !ok || payload.Count != 6 {
		t.Fatalf("unexpected payload %#v", event.Payload)
	}
}

func TestPlacementExhaustedIsWarning(t *testing.T) {
	pub := &capturePublisher{}
	PlacementExhausted(context.Background(), pub, 1, logging.EntityRef{}, PlacementExhaustedPayload{OverlapMisses: 2}, nil)
	if len(pub.events) != 1 || pub.events[0].Severity != logging.SeverityWarn {
		t.Fatalf("expected a warning, got %+v", pub.events)
	}
}

func TestCollisionCarriesTargets(t *testing.T) {
	pub := &capturePublisher{}
	targets := []logging.EntityRef{{ID: "0", Kind: logging.EntityKindAgent}, {ID: "2", Kind: logging.EntityKindAgent}}
	Collision(context.Background(), pub, 1, 9, logging.EntityRef{}, targets, CollisionPayload{Agents: []int{0, 2}, Pairs: 2}, nil)

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	event := pub.events[0]
	if event.Tick != 9 || len(event.Targets) != 2 || event.Category != logging.CategoryCollision {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestHelpersIgnoreNilPublisher(t *testing.T) {
	LayoutGenerated(context.Background(), nil, 0, logging.EntityRef{}, LayoutGeneratedPayload{}, nil)
	PlacementExhausted(context.Background(), nil, 0, logging.EntityRef{}, PlacementExhaustedPayload{}, nil)
	Collision(context.Background(), nil, 0, 0, logging.EntityRef{}, nil, CollisionPayload{}, nil)
}
