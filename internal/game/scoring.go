package game

import (
	"context"
	"log/slog"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
)

type UpdateTeamScoreRequest struct {
	RoomCode string
	TeamID   string
	Delta    int
}

// UpdateTeamScore applies a point delta to a team. Deltas may be negative and
// scores have no floor. Every change announces the new score together with the
// team's cumulative response time, the tie-break signal for standings.
func (s *Service) UpdateTeamScore(ctx context.Context, req UpdateTeamScoreRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	t := r.FindTeam(req.TeamID)
	if t == nil {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithReason(ReasonTeamNotFound),
			errors.WithMessagef("room %q has no team %q", req.RoomCode, req.TeamID))
	}

	t.Score += req.Delta

	slog.InfoContext(ctx, "game: team score updated",
		"room", req.RoomCode,
		"team", req.TeamID,
		"delta", req.Delta,
		"score", t.Score,
	)

	st := r.State()
	s.publish(ctx, domain.EventRoomUpdated{State: st})
	s.publish(ctx, domain.EventScoreUpdated{
		RoomCode:          req.RoomCode,
		TeamID:            req.TeamID,
		Score:             t.Score,
		TotalResponseTime: r.TeamResponseTimes[req.TeamID],
	})

	return &st, nil
}
