package standings_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/event"
	"github.com/duoquiz/duoquiz/internal/standings"
)

func makeService(t *testing.T) *standings.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return standings.NewService(standings.Config{
		EventBus: event.NewBus(),
		Redis:    rdb,
		Prefix:   "test",
	})
}

func update(t *testing.T, s *standings.Service, room, team string, score int, rt int64) {
	t.Helper()

	err := s.Update(context.Background(), domain.EventScoreUpdated{
		RoomCode:          room,
		TeamID:            team,
		Score:             score,
		TotalResponseTime: rt,
	})
	require.NoError(t, err)
}

func TestService_GetStandings_RanksByScoreThenTime(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	update(t, s, "WXYZ", "team-a", 5, 4000)
	update(t, s, "WXYZ", "team-b", 8, 2500)
	update(t, s, "WXYZ", "team-c", 5, 1500)

	got, err := s.GetStandings(ctx, standings.GetStandingsRequest{RoomCode: "WXYZ"})
	require.NoError(t, err)

	require.Equal(t, []standings.Entry{
		{TeamID: "team-b", Score: 8, TotalResponseTime: 2500},
		{TeamID: "team-c", Score: 5, TotalResponseTime: 1500},
		{TeamID: "team-a", Score: 5, TotalResponseTime: 4000},
	}, got, "equal scores break on lower cumulative response time")
}

func TestService_Update_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	update(t, s, "WXYZ", "team-a", 3, 1000)
	update(t, s, "WXYZ", "team-a", 7, 1800)

	got, err := s.GetStandings(ctx, standings.GetStandingsRequest{RoomCode: "WXYZ"})
	require.NoError(t, err)
	require.Equal(t, []standings.Entry{{TeamID: "team-a", Score: 7, TotalResponseTime: 1800}}, got)
}

func TestService_GetStandings_UnknownRoom(t *testing.T) {
	s := makeService(t)

	_, err := s.GetStandings(context.Background(), standings.GetStandingsRequest{RoomCode: "NOPE"})
	require.Error(t, err)
	require.Equal(t, errors.CodeNotFound, errors.Convert(err).Code)
}

func TestService_RoomsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	update(t, s, "AAAA", "team-a", 1, 100)
	update(t, s, "BBBB", "team-b", 9, 900)

	got, err := s.GetStandings(ctx, standings.GetStandingsRequest{RoomCode: "AAAA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "team-a", got[0].TeamID)
}

func TestService_DeleteRoom(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	update(t, s, "WXYZ", "team-a", 4, 400)
	require.NoError(t, s.DeleteRoom(ctx, "WXYZ"))

	_, err := s.GetStandings(ctx, standings.GetStandingsRequest{RoomCode: "WXYZ"})
	require.Error(t, err)
}
