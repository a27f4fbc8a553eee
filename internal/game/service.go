// Package game owns the authoritative per-room session state: room lifecycle,
// player pairing, the round phase machine, answer and pick collection, scoring
// and reconnection identity remapping. All mutation happens under one lock and
// either fully applies or fails with a typed error; successful mutators return
// a detached room snapshot and publish it on the event bus.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/event"
)

type Config struct {
	EventBus *event.Bus

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	eb  *event.Bus
	now func() time.Time

	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewService(c Config) *Service {
	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		eb:    c.EventBus,
		now:   now,
		rooms: make(map[string]*domain.Room),
	}
}

// room returns the live session for code. Callers must hold s.mu.
func (s *Service) room(code string) (*domain.Room, error) {
	r, ok := s.rooms[code]
	if !ok {
		return nil, errRoomNotFound(code)
	}
	return r, nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.eb == nil {
		return
	}
	s.eb.Publish(ctx, e)
}

// snapshotAndPublish detaches a snapshot from r and announces it. Callers must
// hold s.mu; the published copy is safe to use after the lock is released.
func (s *Service) snapshotAndPublish(ctx context.Context, r *domain.Room) *domain.RoomState {
	st := r.State()
	s.publish(ctx, domain.EventRoomUpdated{State: st})
	return &st
}
