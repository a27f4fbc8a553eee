package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/game"
)

func TestService_UpdateTeamScore(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")

	st, err := s.RoomState(testRoom)
	require.NoError(t, err)
	teamID := st.Teams[0].TeamID

	st, err = s.UpdateTeamScore(ctx, game.UpdateTeamScoreRequest{
		RoomCode: testRoom, TeamID: teamID, Delta: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 3, st.Teams[0].Score)

	// Deltas accumulate and may drive the score negative.
	st, err = s.UpdateTeamScore(ctx, game.UpdateTeamScoreRequest{
		RoomCode: testRoom, TeamID: teamID, Delta: -5,
	})
	require.NoError(t, err)
	require.Equal(t, -2, st.Teams[0].Score)
}

func TestService_UpdateTeamScore_TeamNotFound(t *testing.T) {
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")

	_, err := s.UpdateTeamScore(context.Background(), game.UpdateTeamScoreRequest{
		RoomCode: testRoom, TeamID: "no-such-team", Delta: 1,
	})
	require.Equal(t, game.ReasonTeamNotFound, errors.ReasonOf(err))
}
