package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilityZeroDeltaIsZero(t *testing.T) {
	for _, risk := range []float64{-1, -0.5, 0, 0.5, 1} {
		assert.Equal(t, 0.0, Utility(0, risk, 100), "risk %v", risk)
	}
}

func TestUtilityRiskNeutralIsIdentity(t *testing.T) {
	for _, delta := range []float64{-250, -1, 0.5, 100, 12345} {
		assert.Equal(t, delta, Utility(delta, 0, 100), "delta %v", delta)
	}
}

func TestUtilityPreservesSign(t *testing.T) {
	for _, risk := range []float64{-1, -0.3, 0.3, 1} {
		assert.Greater(t, Utility(50, risk, 100), 0.0, "risk %v", risk)
		assert.Less(t, Utility(-50, risk, 100), 0.0, "risk %v", risk)
	}
}

func TestUtilityIsMonotoneInDelta(t *testing.T) {
	for _, risk := range []float64{-1, 0, 1} {
		prev := Utility(-200, risk, 100)
		for delta := -150.0; delta <= 200; delta += 50 {
			u := Utility(delta, risk, 100)
			assert.Greater(t, u, prev, "risk %v delta %v", risk, delta)
			prev = u
		}
	}
}

func TestUtilityCurveShape(t *testing.T) {
	// Positive risk style amplifies gains and dampens losses relative to
	// the neutral line; negative risk style does the opposite.
	gain, loss := 100.0, -100.0

	assert.Greater(t, Utility(gain, 1, 100), gain)
	assert.Greater(t, Utility(loss, 1, 100), loss)

	assert.Less(t, Utility(gain, -1, 100), gain)
	assert.Less(t, Utility(loss, -1, 100), loss)
}

func TestEVCallChips(t *testing.T) {
	// Certain win takes the whole pot
	ev := EVCallChips(CallDecision{Pot: 100, ToCall: 50, WinProb: 1})
	assert.InDelta(t, 100.0, ev, 1e-9)

	// Certain loss burns the call amount
	ev = EVCallChips(CallDecision{Pot: 100, ToCall: 50, WinProb: 0})
	assert.InDelta(t, -50.0, ev, 1e-9)

	// Pure tie: half the pot minus half the call
	ev = EVCallChips(CallDecision{Pot: 100, ToCall: 50, TieProb: 1})
	assert.InDelta(t, 25.0, ev, 1e-9)

	// Break-even pot odds: pot 100, call 50 needs 1/3 equity
	ev = EVCallChips(CallDecision{Pot: 100, ToCall: 50, WinProb: 1.0 / 3.0})
	assert.InDelta(t, 0.0, ev, 1e-9)
}

func TestEVCallUtilityMatchesChipsWhenNeutral(t *testing.T) {
	d := CallDecision{Pot: 120, ToCall: 40, WinProb: 0.4, TieProb: 0.1}
	assert.InDelta(t, EVCallChips(d), EVCallUtility(d), 1e-9)
}

func TestEVRaiseChips(t *testing.T) {
	// Opponent always folds: we take the pot uncontested
	ev := EVRaiseChips(RaiseDecision{Pot: 100, BetSize: 50, FoldProb: 1})
	assert.InDelta(t, 100.0, ev, 1e-9)

	// Always called, always win: pot plus the matched bet
	ev = EVRaiseChips(RaiseDecision{Pot: 100, BetSize: 50, FoldProb: 0, WinProbCall: 1})
	assert.InDelta(t, 150.0, ev, 1e-9)

	// Always called, always lose: bet burned
	ev = EVRaiseChips(RaiseDecision{Pot: 100, BetSize: 50, FoldProb: 0, WinProbCall: 0})
	assert.InDelta(t, -50.0, ev, 1e-9)
}

func TestEVRaiseChipsMultiwayCallers(t *testing.T) {
	base := RaiseDecision{Pot: 100, BetSize: 50, FoldProb: 0, WinProbCall: 1}
	multi := base
	multi.ExpectedCallersWhenCalled = 2

	// Two callers match the bet twice over
	assert.InDelta(t, 150.0, EVRaiseChips(base), 1e-9)
	assert.InDelta(t, 200.0, EVRaiseChips(multi), 1e-9)
}

func TestEVRaiseUtilityMatchesChipsWhenNeutral(t *testing.T) {
	d := RaiseDecision{Pot: 80, ToCall: 20, BetSize: 60, FoldProb: 0.3, WinProbCall: 0.5, TieProbCall: 0.05}
	assert.InDelta(t, EVRaiseChips(d), EVRaiseUtility(d), 1e-9)
}

func TestLoseProbClamped(t *testing.T) {
	d := CallDecision{WinProb: 0.8, TieProb: 0.4}
	assert.Equal(t, 0.0, d.LoseProb())

	d = CallDecision{WinProb: 0.3, TieProb: 0.1}
	assert.InDelta(t, 0.6, d.LoseProb(), 1e-9)
}

func TestRecommendCall(t *testing.T) {
	// Strong spot: clear call
	advice := RecommendCall(CallDecision{Pot: 100, ToCall: 10, WinProb: 0.9})
	assert.Equal(t, VerdictFavorable, advice.Verdict)
	assert.Contains(t, advice.Describe("CALL", "FOLD"), "CALL")

	// Hopeless spot: clear fold
	advice = RecommendCall(CallDecision{Pot: 10, ToCall: 100, WinProb: 0.05})
	assert.Equal(t, VerdictBaseline, advice.Verdict)
	assert.Contains(t, advice.Describe("CALL", "FOLD"), "FOLD")

	// Exactly break-even pot odds
	advice = RecommendCall(CallDecision{Pot: 100, ToCall: 50, WinProb: 1.0 / 3.0})
	assert.Equal(t, VerdictClose, advice.Verdict)
	assert.Contains(t, advice.Describe("CALL", "FOLD"), "CLOSE DECISION")
}

func TestRecommendRaise(t *testing.T) {
	advice := RecommendRaise(RaiseDecision{Pot: 100, BetSize: 50, FoldProb: 0.5, WinProbCall: 0.8})
	assert.Equal(t, VerdictFavorable, advice.Verdict)
	assert.Contains(t, advice.Describe("RAISE/BET", "NO RAISE"), "RAISE/BET")

	advice = RecommendRaise(RaiseDecision{Pot: 10, BetSize: 200, FoldProb: 0, WinProbCall: 0.01})
	assert.Equal(t, VerdictBaseline, advice.Verdict)
	assert.Contains(t, advice.Describe("RAISE/BET", "NO RAISE"), "NO RAISE")
}

func TestAdviceDescribeFormatting(t *testing.T) {
	require.Equal(t, "CALL (EU = 12.500)", Advice{Verdict: VerdictFavorable, EU: 12.5}.Describe("CALL", "FOLD"))
	require.Equal(t, "FOLD (EU = -3.000)", Advice{Verdict: VerdictBaseline, EU: -3}.Describe("CALL", "FOLD"))
	require.Equal(t, "CLOSE DECISION (EU ≈ 0.000)", Advice{Verdict: VerdictClose, EU: 0}.Describe("CALL", "FOLD"))
}
