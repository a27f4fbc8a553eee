package game

import (
	"context"
	"log/slog"
	"sort"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
)

// InitializeRoom creates a fresh session in LOBBY at the given code,
// overwriting any session already there.
func (s *Service) InitializeRoom(ctx context.Context, code string) *domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[code]; ok {
		slog.InfoContext(ctx, "game: reinitializing existing room", "room", code)
	}

	r := &domain.Room{
		Code:              code,
		Status:            domain.RoomLobby,
		Stage:             domain.PhaseIdle,
		TeamResponseTimes: make(map[string]int64),
	}
	s.rooms[code] = r

	return s.snapshotAndPublish(ctx, r)
}

// StartGame transitions a room from LOBBY to PLAYING. At least one team must
// have been formed.
func (s *Service) StartGame(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	switch r.Status {
	case domain.RoomLobby:
	case domain.RoomEnded:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonAlreadyEnded),
			errors.WithMessagef("room %q already ended", code))
	default:
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithReason(ReasonAlreadyStarted),
			errors.WithMessagef("room %q already started", code))
	}

	if len(r.Teams) == 0 {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonNoTeams),
			errors.WithMessagef("room %q has no teams", code))
	}

	r.Status = domain.RoomPlaying

	return s.snapshotAndPublish(ctx, r), nil
}

// EndGame transitions a started room to ENDED. The session stays enumerable
// through RoomCodes until deleted, but drops out of ActiveRooms.
func (s *Service) EndGame(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	switch r.Status {
	case domain.RoomLobby:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonNotStarted),
			errors.WithMessagef("room %q has not started", code))
	case domain.RoomEnded:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonAlreadyEnded),
			errors.WithMessagef("room %q already ended", code))
	}

	r.Status = domain.RoomEnded

	return s.snapshotAndPublish(ctx, r), nil
}

// ReturnToPlaying moves a room showing the scoreboard back to PLAYING. It is
// an "ensure" operation: succeeds as a no-op when the room is absent or not in
// SCORING.
func (s *Service) ReturnToPlaying(ctx context.Context, code string) *domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok {
		return nil
	}

	if r.Status == domain.RoomScoring {
		r.Status = domain.RoomPlaying
	}

	return s.snapshotAndPublish(ctx, r)
}

// HasRoom reports whether a session exists at code.
func (s *Service) HasRoom(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rooms[code]
	return ok
}

// DeleteRoom destroys the session at code. No-op when absent.
func (s *Service) DeleteRoom(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[code]; ok {
		delete(s.rooms, code)
		slog.InfoContext(ctx, "game: room deleted", "room", code)
	}
}

// RoomCodes returns every room code, sorted, including ended sessions.
func (s *Service) RoomCodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}

// ActiveRooms returns snapshots of every session that has not ended, sorted by
// room code.
func (s *Service) ActiveRooms() []domain.RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]domain.RoomState, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.Status == domain.RoomEnded {
			continue
		}
		states = append(states, r.State())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })

	return states
}

// RoomState returns a snapshot of the session at code.
func (s *Service) RoomState(code string) (*domain.RoomState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	st := r.State()
	return &st, nil
}
