// Package standings maintains per-room team rankings in redis, fed by score
// events from the game core. Rank is by score descending; ties break on lower
// cumulative response time.
package standings

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/event"
)

type Config struct {
	EventBus *event.Bus
	Redis    redis.UniversalClient
	Prefix   string
}

type Service struct {
	eb     *event.Bus
	redis  redis.UniversalClient
	prefix string
}

func NewService(c Config) *Service {
	s := &Service{
		eb:     c.EventBus,
		redis:  c.Redis,
		prefix: c.Prefix,
	}

	s.eb.Subscribe(domain.EventNameScoreUpdated, func(ctx context.Context, e event.Event) error {
		return s.Update(ctx, e.(domain.EventScoreUpdated))
	})

	return s
}

// Update overwrites one team's score and response-time aggregate for its room.
func (s *Service) Update(ctx context.Context, e domain.EventScoreUpdated) error {
	if err := s.redis.ZAdd(ctx, s.scoreKey(e.RoomCode), redis.Z{
		Score:  float64(e.Score),
		Member: e.TeamID,
	}).Err(); err != nil {
		return fmt.Errorf("update standings score: %w", err)
	}

	if err := s.redis.HSet(ctx, s.timeKey(e.RoomCode), e.TeamID, e.TotalResponseTime).Err(); err != nil {
		return fmt.Errorf("update standings response time: %w", err)
	}

	return nil
}

type Entry struct {
	TeamID            string
	Score             int
	TotalResponseTime int64
}

type GetStandingsRequest struct {
	RoomCode string
}

// GetStandings returns the ranked teams of a room.
func (s *Service) GetStandings(ctx context.Context, req GetStandingsRequest) ([]Entry, error) {
	zs, err := s.redis.ZRevRangeWithScores(ctx, s.scoreKey(req.RoomCode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get standings: %w", err)
	}

	if len(zs) == 0 {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("no standings for room %q", req.RoomCode))
	}

	times, err := s.redis.HGetAll(ctx, s.timeKey(req.RoomCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("get standings response times: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		team := z.Member.(string)
		e := Entry{
			TeamID: team,
			Score:  int(z.Score),
		}
		if raw, ok := times[team]; ok {
			e.TotalResponseTime, _ = strconv.ParseInt(raw, 10, 64)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TotalResponseTime < entries[j].TotalResponseTime
	})

	return entries, nil
}

// DeleteRoom drops a room's standings, for use when the room is destroyed.
func (s *Service) DeleteRoom(ctx context.Context, roomCode string) error {
	if err := s.redis.Del(ctx, s.scoreKey(roomCode), s.timeKey(roomCode)).Err(); err != nil {
		return fmt.Errorf("delete standings: %w", err)
	}
	return nil
}

func (s *Service) scoreKey(room string) string {
	return fmt.Sprintf("%s:%s:standings", s.prefix, room)
}

func (s *Service) timeKey(room string) string {
	return fmt.Sprintf("%s:%s:times", s.prefix, room)
}
