package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
)

type AddPlayerRequest struct {
	RoomCode string
	SocketID string
	Name     string
	Avatar   string
	IsHost   bool
}

// AddPlayer registers a player (or the host) in a room. Names are the durable
// identity and must be unique within the room, case-sensitively. Hosts live on
// the room's host slot, never in the player list.
func (s *Service) AddPlayer(ctx context.Context, req AddPlayerRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	// The host's name is part of the room's namespace even though the host
	// lives on its own slot.
	taken := r.FindPlayerByName(req.Name) != nil || (r.Host != nil && r.Host.Name == req.Name)
	if taken {
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithReason(ReasonNameConflict),
			errors.WithMessagef("name %q is already taken in room %q", req.Name, req.RoomCode))
	}

	p := &domain.Player{
		SocketID:  req.SocketID,
		Name:      req.Name,
		Avatar:    req.Avatar,
		Connected: true,
	}

	if req.IsHost {
		r.Host = p
	} else {
		r.Players = append(r.Players, p)
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// RemovePlayer removes the player with the given transport id, tearing down
// their pairing first. No-op when the room or player does not exist.
func (s *Service) RemovePlayer(ctx context.Context, code, socketID string) *domain.RoomState {
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

	if p.Paired() {
		s.unpairLocked(r, p)
	}

	for i, q := range r.Players {
		if q == p {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}

	slog.InfoContext(ctx, "game: player removed", "room", code, "player", p.Name)

	return s.snapshotAndPublish(ctx, r)
}

type PairPlayersRequest struct {
	RoomCode string
	PlayerA  string
	PlayerB  string
}

// PairPlayers forms a team from two unpaired players, setting mutual partner
// references and a fresh team id on both.
func (s *Service) PairPlayers(ctx context.Context, req PairPlayersRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	if req.PlayerA == req.PlayerB {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("cannot pair player %q with themselves", req.PlayerA))
	}

	a := r.FindPlayerBySocket(req.PlayerA)
	if a == nil {
		return nil, errPlayerNotFound(req.RoomCode, req.PlayerA)
	}
	b := r.FindPlayerBySocket(req.PlayerB)
	if b == nil {
		return nil, errPlayerNotFound(req.RoomCode, req.PlayerB)
	}

	for _, p := range []*domain.Player{a, b} {
		if p.Paired() {
			return nil, errors.New(errors.CodeFailedPrecondition,
				errors.WithReason(ReasonAlreadyPaired),
				errors.WithMessagef("player %q is already paired", p.Name))
		}
	}

	teamID, err := newTeamID()
	if err != nil {
		return nil, err
	}

	r.Teams = append(r.Teams, &domain.Team{
		TeamID:    teamID,
		Player1ID: a.SocketID,
		Player2ID: b.SocketID,
	})

	a.PartnerID, a.TeamID = b.SocketID, teamID
	b.PartnerID, b.TeamID = a.SocketID, teamID

	return s.snapshotAndPublish(ctx, r), nil
}

// UnpairPlayers tears down the pairing of the player with the given transport
// id. No-op when the room or player is missing, or the player is unpaired.
func (s *Service) UnpairPlayers(ctx context.Context, code, socketID string) *domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok {
		return nil
	}

	p := r.FindPlayerBySocket(socketID)
	if p == nil || !p.Paired() {
		return nil
	}

	s.unpairLocked(r, p)

	return s.snapshotAndPublish(ctx, r)
}

// unpairLocked symmetrically clears the pairing of p and drops the team
// record. Callers must hold s.mu.
func (s *Service) unpairLocked(r *domain.Room, p *domain.Player) {
	teamID := p.TeamID

	if partner := r.FindPlayerBySocket(p.PartnerID); partner != nil {
		partner.PartnerID, partner.TeamID = "", ""
	}
	p.PartnerID, p.TeamID = "", ""

	for i, t := range r.Teams {
		if t.TeamID == teamID {
			r.Teams = append(r.Teams[:i], r.Teams[i+1:]...)
			break
		}
	}
}

// CanJoinAsNew reports whether a brand-new name may still join the room.
// Once the game leaves the lobby, only reconnection under an existing name is
// allowed.
func (s *Service) CanJoinAsNew(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[code]
	return ok && r.Status == domain.RoomLobby
}

func newTeamID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate team ID: %w", err)
	}
	return id.String(), nil
}
