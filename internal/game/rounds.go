package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/duoquiz/duoquiz/internal/domain"
)

// applyStage runs one action through the round phase table. Invalid pairs fail
// before any state is touched.
func applyStage(r *domain.Room, a domain.RoundAction) error {
	next, ok := r.Stage.Next(a)
	if !ok {
		return errInvalidTransition(r.Stage, a)
	}
	r.Stage = next
	return nil
}

type StartRoundRequest struct {
	RoomCode      string
	Question      string
	Variant       domain.Variant
	Options       []string
	AnswerForBoth bool
}

// StartRound begins a new question cycle: validates the variant/options
// pairing, advances the phase machine into ANSWERING and installs a fresh
// round numbered after the last one. CreatedAt is stamped here and never
// mutated afterwards; clients anchor all countdown math on it.
func (s *Service) StartRound(ctx context.Context, req StartRoundRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	return s.startRoundLocked(ctx, r, req)
}

func (s *Service) startRoundLocked(ctx context.Context, r *domain.Room, req StartRoundRequest) (*domain.RoomState, error) {
	if err := validateRoundConfig(req.Variant, req.Options); err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionStartAnswering); err != nil {
		return nil, err
	}

	r.LastRoundNumber++
	r.CurrentRound = &domain.Round{
		RoundNumber:   r.LastRoundNumber,
		Question:      req.Question,
		Variant:       req.Variant,
		Options:       req.Options,
		AnswerForBoth: req.AnswerForBoth,
		Status:        domain.RoundAnswering,
		Answers:       make(map[string]domain.Answer),
		Submitted:     []string{},
		CreatedAt:     s.now(),
	}

	slog.InfoContext(ctx, "game: round started",
		"room", req.RoomCode,
		"round", r.LastRoundNumber,
		"variant", req.Variant,
	)

	return s.snapshotAndPublish(ctx, r), nil
}

func validateRoundConfig(v domain.Variant, options []string) error {
	switch v {
	case domain.VariantMultipleChoice:
		if len(options) < 2 || len(options) > 6 {
			return errInvalidRoundConfig("multiple choice rounds need 2-6 options, got %d", len(options))
		}
	case domain.VariantBinary:
		if len(options) != 2 {
			return errInvalidRoundConfig("binary rounds need exactly 2 options, got %d", len(options))
		}
	case domain.VariantOpenEnded, domain.VariantPoolSelection:
		if len(options) != 0 {
			return errInvalidRoundConfig("%s rounds take no options, got %d", v, len(options))
		}
	default:
		return errInvalidRoundConfig("unknown round variant %q", v)
	}
	return nil
}

type SubmitAnswerRequest struct {
	RoomCode string
	SocketID string
	Text     string

	// ResponseTime is milliseconds since round creation as measured by the
	// client. Nil records the unmeasured sentinel.
	ResponseTime *int64
}

// SubmitAnswer records a player's answer for the current round. Resubmission
// always overwrites the stored answer, but the ordered phase-submission set
// keeps the name at its first position only.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return nil, errNoActiveRound(req.RoomCode)
	}
	if rd.Status != domain.RoundAnswering {
		return nil, errRoundNotAccepting(req.RoomCode, rd.Status)
	}

	p := r.FindPlayerBySocket(req.SocketID)
	if p == nil {
		return nil, errPlayerNotFound(req.RoomCode, req.SocketID)
	}

	rt := domain.UnmeasuredResponseTime
	if req.ResponseTime != nil {
		rt = *req.ResponseTime
	}

	record := func(name string) {
		rd.Answers[name] = domain.Answer{Text: req.Text, ResponseTime: rt}
		if !rd.HasSubmitted(name) {
			rd.Submitted = append(rd.Submitted, name)
		}
	}

	record(p.Name)

	// One submission covers both teammates when the round says so.
	if rd.AnswerForBoth && p.Paired() {
		if partner := r.FindPlayerBySocket(p.PartnerID); partner != nil {
			record(partner.Name)
		}
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// StartSelecting moves a pool-selection round from collecting answers to
// guessing from the pool. The pool is built exactly once, by shuffling the
// collected answer texts; re-entering SELECTING after a reopen keeps it.
func (s *Service) StartSelecting(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return nil, errNoActiveRound(code)
	}
	if rd.Variant != domain.VariantPoolSelection {
		return nil, errInvalidRoundConfig("%s rounds have no selection phase", rd.Variant)
	}

	if err := applyStage(r, domain.ActionStartSelecting); err != nil {
		return nil, err
	}

	rd.Status = domain.RoundSelecting
	if rd.AnswerPool == nil {
		pool := make([]string, 0, len(rd.Answers))
		for _, a := range rd.Answers {
			pool = append(pool, a.Text)
		}
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		rd.AnswerPool = pool
	}
	if rd.Picks == nil {
		rd.Picks = make(map[string]string)
		rd.PicksSubmitted = []string{}
	}

	return s.snapshotAndPublish(ctx, r), nil
}

type SubmitPickRequest struct {
	RoomCode string
	SocketID string
	Pick     string
}

// SubmitPick records a player's choice from the answer pool, mirroring the
// answer-submission semantics: overwrite on resubmit, idempotent membership in
// the ordered pick set.
func (s *Service) SubmitPick(ctx context.Context, req SubmitPickRequest) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(req.RoomCode)
	if err != nil {
		return nil, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return nil, errNoActiveRound(req.RoomCode)
	}
	if rd.Status != domain.RoundSelecting {
		return nil, errRoundNotAccepting(req.RoomCode, rd.Status)
	}

	p := r.FindPlayerBySocket(req.SocketID)
	if p == nil {
		return nil, errPlayerNotFound(req.RoomCode, req.SocketID)
	}

	rd.Picks[p.Name] = req.Pick
	if !rd.HasPicked(p.Name) {
		rd.PicksSubmitted = append(rd.PicksSubmitted, p.Name)
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// OpenScoring moves the room onto the scoreboard: the phase machine enters
// SCORING and the session status follows until ReturnToPlaying.
func (s *Service) OpenScoring(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionStartScoring); err != nil {
		return nil, err
	}

	if r.Status == domain.RoomPlaying {
		r.Status = domain.RoomScoring
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// ReturnToAnswering reopens the current round for submissions. Stored answers
// survive so players can edit them; only the phase-submission set resets, so
// completion detection starts over.
func (s *Service) ReturnToAnswering(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if r.CurrentRound == nil {
		return nil, errNoActiveRound(code)
	}

	if err := applyStage(r, domain.ActionReopenAnswering); err != nil {
		return nil, err
	}

	r.CurrentRound.Status = domain.RoundAnswering
	r.CurrentRound.Submitted = []string{}

	return s.snapshotAndPublish(ctx, r), nil
}

// CompleteRound closes the current round, accumulates each team's response
// times (unmeasured answers excluded) and announces the completed round for
// archival.
func (s *Service) CompleteRound(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return nil, errNoActiveRound(code)
	}

	if err := applyStage(r, domain.ActionCompleteRound); err != nil {
		return nil, err
	}

	rd.Status = domain.RoundComplete
	s.accumulateResponseTimes(r)

	st := r.State()
	s.publish(ctx, domain.EventRoomUpdated{State: st})
	if st.Round != nil {
		s.publish(ctx, domain.EventRoundCompleted{RoomCode: code, Round: *st.Round})
	}

	return &st, nil
}

func (s *Service) accumulateResponseTimes(r *domain.Room) {
	rd := r.CurrentRound
	if rd.TimeAccumulated == nil {
		rd.TimeAccumulated = make(map[string]int64, len(r.Teams))
	}

	for _, t := range r.Teams {
		var total int64
		for _, sid := range []string{t.Player1ID, t.Player2ID} {
			p := r.FindPlayerBySocket(sid)
			if p == nil {
				continue
			}
			if a, ok := rd.Answers[p.Name]; ok && a.ResponseTime != domain.UnmeasuredResponseTime {
				total += a.ResponseTime
			}
		}

		// A reopened round keeps its answers and may complete again; the
		// earlier contribution is still in the aggregate, so apply the delta.
		r.TeamResponseTimes[t.TeamID] += total - rd.TimeAccumulated[t.TeamID]
		rd.TimeAccumulated[t.TeamID] = total
	}
}

// NextRound discards the completed round and returns the room to IDLE. The
// round numbering survives on the session.
func (s *Service) NextRound(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionNextRound); err != nil {
		return nil, err
	}

	r.CurrentRound = nil
	if r.Status == domain.RoomScoring {
		r.Status = domain.RoomPlaying
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// ResetQuestion abandons the current question entirely, dropping the round
// without recording anything.
func (s *Service) ResetQuestion(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	if err := applyStage(r, domain.ActionResetQuestion); err != nil {
		return nil, err
	}

	r.CurrentRound = nil

	return s.snapshotAndPublish(ctx, r), nil
}

// RestartQuestion replays the current question from scratch: same question,
// same round number, empty answers, a fresh timestamp anchor.
func (s *Service) RestartQuestion(ctx context.Context, code string) (*domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.room(code)
	if err != nil {
		return nil, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return nil, errNoActiveRound(code)
	}

	if err := applyStage(r, domain.ActionRestartQuestion); err != nil {
		return nil, err
	}

	// The replay discards its answers, so any response time the round already
	// contributed is withdrawn with them.
	for teamID, total := range rd.TimeAccumulated {
		r.TeamResponseTimes[teamID] -= total
	}

	r.CurrentRound = &domain.Round{
		RoundNumber:   rd.RoundNumber,
		Question:      rd.Question,
		Variant:       rd.Variant,
		Options:       rd.Options,
		AnswerForBoth: rd.AnswerForBoth,
		Status:        domain.RoundAnswering,
		Answers:       make(map[string]domain.Answer),
		Submitted:     []string{},
		CreatedAt:     s.now(),
	}

	return s.snapshotAndPublish(ctx, r), nil
}

// IsRoundComplete reports whether every connected player has submitted in the
// current phase. Disconnected players are excluded from the required set, so a
// round can complete without them. False when no round is active.
func (s *Service) IsRoundComplete(code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.room(code)
	if err != nil {
		return false, err
	}

	rd := r.CurrentRound
	if rd == nil {
		return false, nil
	}

	submitted := rd.HasSubmitted
	if rd.Status == domain.RoundSelecting {
		submitted = rd.HasPicked
	}

	for _, p := range r.Players {
		if !p.Connected {
			continue
		}
		if !submitted(p.Name) {
			return false, nil
		}
	}

	return true, nil
}

// SetCurrentRoundID records the durable id assigned to the current round by
// external storage. No-op when the room or round is gone; archival must never
// fail a live session.
func (s *Service) SetCurrentRoundID(ctx context.Context, code, roundID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[code]
	if !ok || r.CurrentRound == nil {
		return
	}

	r.CurrentRound.RoundID = roundID
}
