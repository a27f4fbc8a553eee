package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/game"
)

func TestService_ReconnectPlayer_RewritesBackReferences(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")

	startOpenRound(t, s, "q1")
	submit(t, s, "sock-ana", "kept", 1000)

	s.DisconnectPlayer(ctx, testRoom, "sock-ana")

	st, err := s.ReconnectPlayer(ctx, game.ReconnectPlayerRequest{
		RoomCode:    testRoom,
		Name:        "ana",
		NewSocketID: "sock-ana-2",
	})
	require.NoError(t, err)

	ana, ben := st.Players[0], st.Players[1]
	require.Equal(t, "sock-ana-2", ana.SocketID)
	require.True(t, ana.Connected)
	require.Equal(t, "sock-ana-2", ben.PartnerID, "partner back-reference follows the new id")

	team := st.Teams[0]
	require.Contains(t, []string{team.Player1ID, team.Player2ID}, "sock-ana-2")
	require.NotContains(t, []string{team.Player1ID, team.Player2ID}, "sock-ana")

	require.Equal(t, "kept", st.Round.Answers["ana"].Text,
		"round progress keys on name and survives the id swap")

	// The new transport id can act immediately.
	_, err = s.SubmitAnswer(ctx, game.SubmitAnswerRequest{
		RoomCode: testRoom, SocketID: "sock-ana-2", Text: "edited",
	})
	require.NoError(t, err)
}

func TestService_ReconnectPlayer_UnknownName(t *testing.T) {
	s := makeService(t)
	makeLobby(t, s, "ana")

	_, err := s.ReconnectPlayer(context.Background(), game.ReconnectPlayerRequest{
		RoomCode: testRoom, Name: "ghost", NewSocketID: "sock-ghost",
	})
	require.Equal(t, game.ReasonPlayerNotFound, errors.ReasonOf(err))
}

func TestService_ReconnectHost(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makeLobby(t, s, "ana")

	s.DisconnectHost(ctx, testRoom)
	st, err := s.RoomState(testRoom)
	require.NoError(t, err)
	require.False(t, st.Host.Connected)

	st, err = s.ReconnectHost(ctx, testRoom, "sock-host-2")
	require.NoError(t, err)
	require.Equal(t, "sock-host-2", st.Host.SocketID)
	require.True(t, st.Host.Connected)
}

func TestService_DisconnectedPlayers(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makeLobby(t, s, "ana", "ben", "cal")

	require.Empty(t, s.DisconnectedPlayers(testRoom))

	s.DisconnectPlayer(ctx, testRoom, "sock-cal")
	s.DisconnectPlayer(ctx, testRoom, "sock-ana")

	require.Equal(t, []string{"ana", "cal"}, s.DisconnectedPlayers(testRoom),
		"join order, not disconnect order")
	require.Nil(t, s.DisconnectedPlayers("NOPE"))
}

func TestService_Disconnect_Noops(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makeLobby(t, s, "ana")

	require.Nil(t, s.DisconnectPlayer(ctx, testRoom, "sock-ghost"))
	require.Nil(t, s.DisconnectPlayer(ctx, "NOPE", "sock-ana"))
	require.Nil(t, s.DisconnectHost(ctx, "NOPE"))
}
