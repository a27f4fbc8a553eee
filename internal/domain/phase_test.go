package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/domain"
)

func TestRoundPhase_Next(t *testing.T) {
	type pair struct {
		phase  domain.RoundPhase
		action domain.RoundAction
	}

	allowed := map[pair]domain.RoundPhase{
		{domain.PhaseIdle, domain.ActionRevealChapter}:  domain.PhaseRevealChapter,
		{domain.PhaseIdle, domain.ActionStartAnswering}: domain.PhaseAnswering,

		{domain.PhaseRevealChapter, domain.ActionRevealVariant}: domain.PhaseRevealVariant,
		{domain.PhaseRevealChapter, domain.ActionResetQuestion}: domain.PhaseIdle,

		{domain.PhaseRevealVariant, domain.ActionStartAnswering}: domain.PhaseAnswering,
		{domain.PhaseRevealVariant, domain.ActionResetQuestion}:  domain.PhaseIdle,

		{domain.PhaseAnswering, domain.ActionStartSelecting}:   domain.PhaseSelecting,
		{domain.PhaseAnswering, domain.ActionStartScoring}:     domain.PhaseScoring,
		{domain.PhaseAnswering, domain.ActionCompleteRound}:    domain.PhaseComplete,
		{domain.PhaseAnswering, domain.ActionRestartQuestion}:  domain.PhaseAnswering,
		{domain.PhaseAnswering, domain.ActionResetQuestion}:    domain.PhaseIdle,
		{domain.PhaseAnswering, domain.ActionPreviousQuestion}: domain.PhaseRevealChapter,
		{domain.PhaseAnswering, domain.ActionSkipQuestion}:     domain.PhaseRevealChapter,

		{domain.PhaseSelecting, domain.ActionStartScoring}:    domain.PhaseScoring,
		{domain.PhaseSelecting, domain.ActionCompleteRound}:   domain.PhaseComplete,
		{domain.PhaseSelecting, domain.ActionReopenAnswering}: domain.PhaseAnswering,
		{domain.PhaseSelecting, domain.ActionResetQuestion}:   domain.PhaseIdle,

		{domain.PhaseScoring, domain.ActionCompleteRound}:    domain.PhaseComplete,
		{domain.PhaseScoring, domain.ActionReopenAnswering}:  domain.PhaseAnswering,
		{domain.PhaseScoring, domain.ActionRestartQuestion}:  domain.PhaseAnswering,
		{domain.PhaseScoring, domain.ActionResetQuestion}:    domain.PhaseIdle,
		{domain.PhaseScoring, domain.ActionPreviousQuestion}: domain.PhaseRevealChapter,
		{domain.PhaseScoring, domain.ActionSkipQuestion}:     domain.PhaseRevealChapter,

		{domain.PhaseComplete, domain.ActionNextRound}:       domain.PhaseIdle,
		{domain.PhaseComplete, domain.ActionReopenAnswering}: domain.PhaseAnswering,
		{domain.PhaseComplete, domain.ActionResetQuestion}:   domain.PhaseIdle,
	}

	// Every (phase, action) pair is either in the table with the expected
	// target, or rejected. The table is closed: nothing else passes.
	for _, p := range domain.Phases() {
		for _, a := range domain.Actions() {
			next, ok := p.Next(a)

			want, expected := allowed[pair{p, a}]
			if expected {
				require.True(t, ok, "(%s, %s) should be allowed", p, a)
				require.Equal(t, want, next, "(%s, %s) should land on %s", p, a, want)
			} else {
				require.False(t, ok, "(%s, %s) should be rejected", p, a)
			}
		}
	}
}

func TestRoundPhase_NavigationReentersReveal(t *testing.T) {
	// Cursor navigation re-enters the reveal sequence no matter where it was
	// triggered.
	for _, from := range []domain.RoundPhase{domain.PhaseAnswering, domain.PhaseScoring} {
		for _, a := range []domain.RoundAction{domain.ActionPreviousQuestion, domain.ActionSkipQuestion} {
			next, ok := from.Next(a)
			require.True(t, ok)
			require.Equal(t, domain.PhaseRevealChapter, next)
		}
	}
}
