package game

import (
	"context"
	"log/slog"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
)

// DisconnectPlayer marks the player with the given transport id as offline.
// Everything else stays: answers, pairing and scores key on the durable name,
// so a dropped connection never loses round progress. No-op on missing room or
// player.
func (s *Service) DisconnectPlayer(ctx context.Context, code, socketID string) *domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok {
		return nil
	}

	p := r.FindPlayerBySocket(socketID)
	if p == nil {
		return nil
	}

	p.Connected = false
	slog.InfoContext(ctx, "game: player disconnected", "room", code, "player", p.Name)

	return s.snapshotAndPublish(ctx, r)
}

// DisconnectHost marks the host as offline. No-op on missing room or host.
func (s *Service) DisconnectHost(ctx context.Context, code string) *domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok || r.Host == nil {
		return nil
	}

	r.Host.Connected = false

	return s.snapshotAndPublish(ctx, r)
}

type ReconnectPlayerRequest struct {
	RoomCode    string
	Name        string
	NewSocketID string
}

// ReconnectPlayer remaps a player's durable name identity onto a new transport
// identity. The new id is propagated to every back-reference that carried the
// old one: the partner's partner id and both slots of the owning team.
func (s *Service) ReconnectPlayer(ctx context.Context, req ReconnectPlayerRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	p := r.FindPlayerByName(req.Name)
	if p == nil {
		return nil, errPlayerNotFound(req.RoomCode, req.Name)
	}

	oldID := p.SocketID
	p.SocketID = req.NewSocketID
	p.Connected = true

	if p.Paired() {
		if partner := r.FindPlayerBySocket(p.PartnerID); partner != nil {
			partner.PartnerID = req.NewSocketID
		}
		if t := r.FindTeam(p.TeamID); t != nil {
			if t.Player1ID == oldID {
				t.Player1ID = req.NewSocketID
			}
			if t.Player2ID == oldID {
				t.Player2ID = req.NewSocketID
			}
		}
	}

	slog.InfoContext(ctx, "game: player reconnected",
		"room", req.RoomCode,
		"player", req.Name,
	)

	return s.snapshotAndPublish(ctx, r), nil
}

// ReconnectHost rebinds the host to a new transport identity.
func (s *Service) ReconnectHost(ctx context.Context, code, newSocketID string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if r.Host == nil {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithReason(ReasonHostNotFound),
			errors.WithMessagef("room %q has no host", code))
	}

	r.Host.SocketID = newSocketID
	r.Host.Connected = true

	return s.snapshotAndPublish(ctx, r), nil
}

// DisconnectedPlayers returns the names of all offline players, in join
// order. Empty when the room is absent.
func (s *Service) DisconnectedPlayers(code string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[code]
	if !ok {
		return nil
	}

	var names []string
	for _, p := range r.Players {
		if !p.Connected {
			names = append(names, p.Name)
		}
	}

	return names
}
