package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/duoquiz/duoquiz/internal/domain"
)

// onRoomUpdated fans a fresh snapshot out to the room's websocket clients and
// republishes it on the room's redis channel for external observers.
func (g *Gateway) onRoomUpdated(ctx context.Context, e domain.EventRoomUpdated) error {
	code := e.State.Code

	complete, err := g.game.IsRoundComplete(code)
	if err != nil {
		// Room was deleted between mutation and fanout; nothing to notify.
		complete = false
	}

	payload := RoomStatePayload{
		State:         e.State,
		RoundComplete: complete,
	}

	g.broadcast(code, Notification{Event: "room.state", Data: payload})

	return g.publishSnapshot(ctx, code, payload)
}

func (g *Gateway) broadcast(code string, n Notification) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for cl := range g.rooms[code] {
		cl.trySend(n)
	}
}

func (g *Gateway) publishSnapshot(ctx context.Context, code string, payload RoomStatePayload) error {
	if g.redis == nil {
		return nil
	}

	b, err := json.Marshal(Notification{Event: "room.state", Data: payload})
	if err != nil {
		return fmt.Errorf("pubsub: marshal room state: %v", err)
	}

	return g.redis.Publish(ctx, fmt.Sprintf("%s:room:%s", g.prefix, code), b).Err()
}
