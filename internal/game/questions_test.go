package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/game"
	"github.com/duoquiz/duoquiz/internal/questionset"
)

func testSet() questionset.Set {
	return questionset.Set{
		Title: "movie night",
		Chapters: []questionset.Chapter{
			{Title: "warmup", Questions: []questionset.Question{
				{Question: "favorite film?", Variant: "OPEN_ENDED"},
				{Question: "popcorn or candy?", Variant: "BINARY", Options: []string{"popcorn", "candy"}},
			}},
			{Title: "empty chapter"},
			{Title: "finale", Questions: []questionset.Question{
				{Question: "guess your partner's pick", Variant: "POOL_SELECTION", AnswerForBoth: true},
			}},
		},
	}
}

func loadSet(t *testing.T, s *game.Service) {
	t.Helper()

	_, err := s.LoadQuestionSet(context.Background(), game.LoadQuestionSetRequest{
		RoomCode: testRoom,
		Set:      testSet(),
	})
	require.NoError(t, err)
}

func TestService_LoadQuestionSet(t *testing.T) {
	ctx := context.Background()

	t.Run("cursor points at the first question", func(t *testing.T) {
		s := makeService(t)
		makePlayingRoom(t, s, "ana", "ben")
		loadSet(t, s)

		st, err := s.RoomState(testRoom)
		require.NoError(t, err)
		require.Equal(t, "movie night", st.QuestionSetTitle)
		require.Equal(t, &domain.Cursor{Chapter: 0, Question: 0}, st.Cursor)
	})

	t.Run("empty set is rejected", func(t *testing.T) {
		s := makeService(t)
		makePlayingRoom(t, s, "ana", "ben")

		_, err := s.LoadQuestionSet(ctx, game.LoadQuestionSetRequest{
			RoomCode: testRoom,
			Set:      questionset.Set{Title: "nothing", Chapters: []questionset.Chapter{{Title: "empty"}}},
		})
		require.Equal(t, game.ReasonInvalidRoundConfig, errors.ReasonOf(err))
	})
}

func TestService_RevealSequence(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")
	loadSet(t, s)

	st, err := s.RevealChapter(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseRevealChapter, st.Stage)

	st, err = s.RevealVariant(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseRevealVariant, st.Stage)

	st, err = s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAnswering, st.Stage)
	require.Equal(t, "favorite film?", st.Round.Question)
	require.Equal(t, domain.VariantOpenEnded, st.Round.Variant)
}

func TestService_RevealChapter_RequiresQuestionSet(t *testing.T) {
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")

	_, err := s.RevealChapter(context.Background(), testRoom)
	require.Equal(t, game.ReasonNoQuestionSet, errors.ReasonOf(err))
}

func TestService_CursorNavigation(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")
	loadSet(t, s)

	_, err := s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)

	st, err := s.SkipQuestion(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, &domain.Cursor{Chapter: 0, Question: 1}, st.Cursor)
	require.Equal(t, domain.PhaseRevealChapter, st.Stage, "navigation re-enters the reveal sequence")

	// Advancing past the empty chapter lands on the finale.
	_, err = s.RevealVariant(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)

	st, err = s.SkipQuestion(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, &domain.Cursor{Chapter: 2, Question: 0}, st.Cursor)

	// End of the set: skipping fails without moving cursor or stage.
	_, err = s.SkipQuestion(ctx, testRoom)
	require.Equal(t, game.ReasonInvalidTransition, errors.ReasonOf(err))

	after, err := s.RoomState(testRoom)
	require.NoError(t, err)
	require.Equal(t, &domain.Cursor{Chapter: 2, Question: 0}, after.Cursor)
	require.Equal(t, domain.PhaseRevealChapter, after.Stage)

	// And back again, rolling over the empty chapter in reverse. Navigation
	// only fires from a live round, so each step replays the reveal sequence.
	reachAnswering := func() {
		t.Helper()
		_, err := s.RevealVariant(ctx, testRoom)
		require.NoError(t, err)
		_, err = s.StartCursorRound(ctx, testRoom)
		require.NoError(t, err)
	}

	reachAnswering()
	st, err = s.PreviousQuestion(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, &domain.Cursor{Chapter: 0, Question: 1}, st.Cursor)

	reachAnswering()
	st, err = s.PreviousQuestion(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, &domain.Cursor{Chapter: 0, Question: 0}, st.Cursor)

	reachAnswering()
	_, err = s.PreviousQuestion(ctx, testRoom)
	require.Equal(t, game.ReasonInvalidTransition, errors.ReasonOf(err))
}

func TestService_StartCursorRound_ValidatesVariant(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")

	_, err := s.LoadQuestionSet(ctx, game.LoadQuestionSetRequest{
		RoomCode: testRoom,
		Set: questionset.Set{
			Title: "broken",
			Chapters: []questionset.Chapter{
				{Title: "c1", Questions: []questionset.Question{
					{Question: "bad", Variant: "BINARY", Options: []string{"only one"}},
				}},
			},
		},
	})
	require.NoError(t, err)

	_, err = s.StartCursorRound(ctx, testRoom)
	require.Equal(t, game.ReasonInvalidRoundConfig, errors.ReasonOf(err))
}

func TestService_StartCursorRound_CarriesAnswerForBoth(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)
	makePlayingRoom(t, s, "ana", "ben")
	loadSet(t, s)

	// Walk to the finale question.
	_, err := s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.SkipQuestion(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.RevealVariant(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.SkipQuestion(ctx, testRoom)
	require.NoError(t, err)
	_, err = s.RevealVariant(ctx, testRoom)
	require.NoError(t, err)

	st, err := s.StartCursorRound(ctx, testRoom)
	require.NoError(t, err)
	require.Equal(t, domain.VariantPoolSelection, st.Round.Variant)
	require.True(t, st.Round.AnswerForBoth)
	require.Equal(t, 3, st.Round.RoundNumber)
}
