package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/event"
	"github.com/duoquiz/duoquiz/internal/game"
)

const testRoom = "WXYZ"

func makeService(t *testing.T) *game.Service {
	t.Helper()

	return game.NewService(game.Config{
		EventBus: event.NewBus(),
		Now:      func() time.Time { return time.Unix(1700000000, 0) },
	})
}

// makeLobby creates a room with a host and the given players, unpaired.
func makeLobby(t *testing.T, s *game.Service, names ...string) {
	t.Helper()

	ctx := context.Background()
	s.InitializeRoom(ctx, testRoom)

	_, err := s.AddPlayer(ctx, game.AddPlayerRequest{
		RoomCode: testRoom,
		SocketID: "sock-host",
		Name:     "host",
		IsHost:   true,
	})
	require.NoError(t, err)

	for _, name := range names {
		_, err := s.AddPlayer(ctx, game.AddPlayerRequest{
			RoomCode: testRoom,
			SocketID: "sock-" + name,
			Name:     name,
		})
		require.NoError(t, err)
	}
}

// makePlayingRoom creates a room with the given players joined in consecutive
// pairs, and the game started.
func makePlayingRoom(t *testing.T, s *game.Service, names ...string) {
	t.Helper()

	makeLobby(t, s, names...)

	ctx := context.Background()
	for i := 0; i+1 < len(names); i += 2 {
		_, err := s.PairPlayers(ctx, game.PairPlayersRequest{
			RoomCode: testRoom,
			PlayerA:  "sock-" + names[i],
			PlayerB:  "sock-" + names[i+1],
		})
		require.NoError(t, err)
	}

	_, err := s.StartGame(ctx, testRoom)
	require.NoError(t, err)
}

func startOpenRound(t *testing.T, s *game.Service, question string) {
	t.Helper()

	_, err := s.StartRound(context.Background(), game.StartRoundRequest{
		RoomCode: testRoom,
		Question: question,
		Variant:  domain.VariantOpenEnded,
	})
	require.NoError(t, err)
}

func submit(t *testing.T, s *game.Service, socketID, text string, rt int64) *domain.RoomState {
	t.Helper()

	st, err := s.SubmitAnswer(context.Background(), game.SubmitAnswerRequest{
		RoomCode:     testRoom,
		SocketID:     socketID,
		Text:         text,
		ResponseTime: &rt,
	})
	require.NoError(t, err)
	return st
}
