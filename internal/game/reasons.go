package game

import (
	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
)

// Failure reasons surfaced by game mutators. Transport converts these into
// user-visible messages; tests match on them.
const (
	ReasonRoomNotFound       errors.Reason = "ROOM_NOT_FOUND"
	ReasonPlayerNotFound     errors.Reason = "PLAYER_NOT_FOUND"
	ReasonHostNotFound       errors.Reason = "HOST_NOT_FOUND"
	ReasonTeamNotFound       errors.Reason = "TEAM_NOT_FOUND"
	ReasonNameConflict       errors.Reason = "NAME_CONFLICT"
	ReasonAlreadyPaired      errors.Reason = "ALREADY_PAIRED"
	ReasonInvalidRoundConfig errors.Reason = "INVALID_ROUND_CONFIG"
	ReasonNoActiveRound      errors.Reason = "NO_ACTIVE_ROUND"
	ReasonRoundNotAccepting  errors.Reason = "ROUND_NOT_ACCEPTING"
	ReasonInvalidTransition  errors.Reason = "INVALID_TRANSITION"
	ReasonAlreadyStarted     errors.Reason = "ALREADY_STARTED"
	ReasonNotStarted         errors.Reason = "NOT_STARTED"
	ReasonAlreadyEnded       errors.Reason = "ALREADY_ENDED"
	ReasonNoTeams            errors.Reason = "NO_TEAMS"
	ReasonNoQuestionSet      errors.Reason = "NO_QUESTION_SET"
)

func errRoomNotFound(code string) error {
	return errors.New(errors.CodeNotFound,
		errors.WithReason(ReasonRoomNotFound),
		errors.WithMessagef("room %q does not exist", code),
	)
}

func errPlayerNotFound(code, id string) error {
	return errors.New(errors.CodeNotFound,
		errors.WithReason(ReasonPlayerNotFound),
		errors.WithMessagef("room %q has no player %q", code, id),
	)
}

func errNoActiveRound(code string) error {
	return errors.New(errors.CodeFailedPrecondition,
		errors.WithReason(ReasonNoActiveRound),
		errors.WithMessagef("room %q has no active round", code),
	)
}

func errRoundNotAccepting(code string, status domain.RoundStatus) error {
	return errors.New(errors.CodeFailedPrecondition,
		errors.WithReason(ReasonRoundNotAccepting),
		errors.WithMessagef("room %q round is %s, not accepting submissions", code, status),
	)
}

func errInvalidTransition(phase domain.RoundPhase, action domain.RoundAction) error {
	return errors.New(errors.CodeFailedPrecondition,
		errors.WithReason(ReasonInvalidTransition),
		errors.WithMessagef("action %s is not allowed in phase %s", action, phase),
	)
}

func errInvalidRoundConfig(format string, args ...any) error {
	return errors.New(errors.CodeInvalidArgument,
		errors.WithReason(ReasonInvalidRoundConfig),
		errors.WithMessagef(format, args...),
	)
}
