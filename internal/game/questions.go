package game

import (
	"context"
	"log/slog"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/questionset"
)

type LoadQuestionSetRequest struct {
	RoomCode string
	Set      questionset.Set
}

// LoadQuestionSet attaches an imported question set to the room and points the
// cursor at its first question. The set's content is opaque to the core; only
// cursor bounds are enforced.
func (s *Service) LoadQuestionSet(ctx context.Context, req LoadQuestionSetRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	set := req.Set
	chapter, question, ok := set.First()
	if !ok {
		return nil, errInvalidRoundConfig("question set %q has no questions", set.Title)
	}

	r.QuestionSet = &set
	r.Cursor = &domain.Cursor{Chapter: chapter, Question: question}

	slog.InfoContext(ctx, "game: question set loaded",
		"room", req.RoomCode,
		"title", set.Title,
		"chapters", len(set.Chapters),
	)

	return s.snapshotAndPublish(ctx, r), nil
}

// RevealChapter enters the reveal sequence for the chapter under the cursor.
func (s *Service) RevealChapter(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.roomWithQuestionSet(code)
	if err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionRevealChapter); err != nil {
		return nil, err
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// RevealVariant reveals the upcoming question's variant.
func (s *Service) RevealVariant(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.roomWithQuestionSet(code)
	if err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionRevealVariant); err != nil {
		return nil, err
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// StartCursorRound starts a round from the question under the cursor,
// running the same variant validation and phase transition as a manually
// configured round.
func (s *Service) StartCursorRound(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.roomWithQuestionSet(code)
	if err != nil {
		return nil, err
	}

	q, ok := r.QuestionSet.At(r.Cursor.Chapter, r.Cursor.Question)
	if !ok {
		return nil, errInvalidRoundConfig("cursor %d/%d is out of bounds", r.Cursor.Chapter, r.Cursor.Question)
	}

	return s.startRoundLocked(ctx, r, StartRoundRequest{
		RoomCode:      code,
		Question:      q.Question,
		Variant:       domain.Variant(q.Variant),
		Options:       q.Options,
		AnswerForBoth: q.AnswerForBoth,
	})
}

// SkipQuestion advances the cursor to the next question and re-enters the
// reveal sequence. Fails without moving anything at the end of the set.
func (s *Service) SkipQuestion(ctx context.Context, code string) (*domain.RoomState, error) {
	return s.moveCursor(ctx, code, domain.ActionSkipQuestion, (*questionset.Set).Next)
}

// PreviousQuestion retreats the cursor to the previous question and re-enters
// the reveal sequence. Fails without moving anything at the start of the set.
func (s *Service) PreviousQuestion(ctx context.Context, code string) (*domain.RoomState, error) {
	return s.moveCursor(ctx, code, domain.ActionPreviousQuestion, (*questionset.Set).Prev)
}

func (s *Service) moveCursor(
	ctx context.Context,
	code string,
	action domain.RoundAction,
	step func(*questionset.Set, int, int) (int, int, bool),
) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.roomWithQuestionSet(code)
	if err != nil {
		return nil, err
	}

	chapter, question, ok := step(r.QuestionSet, r.Cursor.Chapter, r.Cursor.Question)
	if !ok {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonInvalidTransition),
			errors.WithMessagef("no question beyond cursor %d/%d", r.Cursor.Chapter, r.Cursor.Question))
	}

	if err := applyStage(r, action); err != nil {
		return nil, err
	}

	r.Cursor.Chapter, r.Cursor.Question = chapter, question

	return s.snapshotAndPublish(ctx, r), nil
}

// roomWithQuestionSet resolves a room that must carry an imported question
// set. Callers must hold s.mu.
func (s *Service) roomWithQuestionSet(code string) (*domain.Room, error) {
	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if r.QuestionSet == nil || r.Cursor == nil {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonNoQuestionSet),
			errors.WithMessagef("room %q has no question set loaded", code))
	}

	return r, nil
}
