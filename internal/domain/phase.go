package domain

// RoundPhase is the per-room stage of the round lifecycle, covering both the
// plain answer/score cycle and the reveal states used when navigating an
// imported question set.
type RoundPhase string

const (
	PhaseIdle          RoundPhase = "IDLE"
	PhaseRevealChapter RoundPhase = "REVEAL_CHAPTER"
	PhaseRevealVariant RoundPhase = "REVEAL_VARIANT"
	PhaseAnswering     RoundPhase = "ANSWERING"
	PhaseSelecting     RoundPhase = "SELECTING"
	PhaseScoring       RoundPhase = "SCORING"
	PhaseComplete      RoundPhase = "COMPLETE"
)

// RoundAction is a host- or system-driven action against the round lifecycle.
type RoundAction string

const (
	ActionRevealChapter    RoundAction = "REVEAL_CHAPTER"
	ActionRevealVariant    RoundAction = "REVEAL_VARIANT"
	ActionStartAnswering   RoundAction = "START_ANSWERING"
	ActionStartSelecting   RoundAction = "START_SELECTING"
	ActionStartScoring     RoundAction = "START_SCORING"
	ActionReopenAnswering  RoundAction = "REOPEN_ANSWERING"
	ActionCompleteRound    RoundAction = "COMPLETE_ROUND"
	ActionNextRound        RoundAction = "NEXT_ROUND"
	ActionResetQuestion    RoundAction = "RESET_QUESTION"
	ActionRestartQuestion  RoundAction = "RESTART_QUESTION"
	ActionPreviousQuestion RoundAction = "PREVIOUS_QUESTION"
	ActionSkipQuestion     RoundAction = "SKIP_QUESTION"
)

// transitions is the closed (phase, action) table. Any pair absent here is an
// invalid transition and must leave state untouched. Cursor navigation always
// re-enters the reveal sequence, regardless of where it was triggered.
var transitions = map[RoundPhase]map[RoundAction]RoundPhase{
	PhaseIdle: {
		ActionRevealChapter:  PhaseRevealChapter,
		ActionStartAnswering: PhaseAnswering,
	},
	PhaseRevealChapter: {
		ActionRevealVariant: PhaseRevealVariant,
		ActionResetQuestion: PhaseIdle,
	},
	PhaseRevealVariant: {
		ActionStartAnswering: PhaseAnswering,
		ActionResetQuestion:  PhaseIdle,
	},
	PhaseAnswering: {
		ActionStartSelecting:   PhaseSelecting,
		ActionStartScoring:     PhaseScoring,
		ActionCompleteRound:    PhaseComplete,
		ActionRestartQuestion:  PhaseAnswering,
		ActionResetQuestion:    PhaseIdle,
		ActionPreviousQuestion: PhaseRevealChapter,
		ActionSkipQuestion:     PhaseRevealChapter,
	},
	PhaseSelecting: {
		ActionStartScoring:    PhaseScoring,
		ActionCompleteRound:   PhaseComplete,
		ActionReopenAnswering: PhaseAnswering,
		ActionResetQuestion:   PhaseIdle,
	},
	PhaseScoring: {
		ActionCompleteRound:    PhaseComplete,
		ActionReopenAnswering:  PhaseAnswering,
		ActionRestartQuestion:  PhaseAnswering,
		ActionResetQuestion:    PhaseIdle,
		ActionPreviousQuestion: PhaseRevealChapter,
		ActionSkipQuestion:     PhaseRevealChapter,
	},
	PhaseComplete: {
		ActionNextRound:       PhaseIdle,
		ActionReopenAnswering: PhaseAnswering,
		ActionResetQuestion:   PhaseIdle,
	},
}

// Next returns the phase reached by applying a, and whether the transition is
// allowed at all.
func (p RoundPhase) Next(a RoundAction) (RoundPhase, bool) {
	next, ok := transitions[p][a]
	return next, ok
}

// Phases lists every round phase, in lifecycle order.
func Phases() []RoundPhase {
	return []RoundPhase{
		PhaseIdle,
		PhaseRevealChapter,
		PhaseRevealVariant,
		PhaseAnswering,
		PhaseSelecting,
		PhaseScoring,
		PhaseComplete,
	}
}

// Actions lists every round action.
func Actions() []RoundAction {
	return []RoundAction{
		ActionRevealChapter,
		ActionRevealVariant,
		ActionStartAnswering,
		ActionStartSelecting,
		ActionStartScoring,
		ActionReopenAnswering,
		ActionCompleteRound,
		ActionNextRound,
		ActionResetQuestion,
		ActionRestartQuestion,
		ActionPreviousQuestion,
		ActionSkipQuestion,
	}
}
