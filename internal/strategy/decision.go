// Package strategy converts pot/bet geometry and equity estimates into
// expected value (chips) and risk-adjusted expected utility for call and
// raise decisions.
package strategy

// CallDecision captures the inputs for evaluating CALL against a FOLD
// baseline of 0. The model assumes the decision is terminal: calling
// goes straight to showdown with no further betting.
type CallDecision struct {
	// Pot is the current pot before our decision, including the bet we face
	Pot float64

	// ToCall is the amount we must add to call
	ToCall float64

	// WinProb is the probability we win at showdown after calling
	WinProb float64

	// TieProb is the probability the pot is split
	TieProb float64

	// RiskFactor selects the utility curve: 0 is risk-neutral, positive
	// is cautious, negative is risk-seeking.
	RiskFactor float64
}

// LoseProb derives the losing probability, clamped to [0, 1]
func (d CallDecision) LoseProb() float64 {
	return clamp01(1.0 - d.WinProb - d.TieProb)
}

// RaiseDecision captures the inputs for evaluating a BET/RAISE against a
// check/fold baseline of 0. The opponent folds with FoldProb; otherwise
// they call and the hand goes to showdown.
type RaiseDecision struct {
	// Pot is the current pot before our bet
	Pot float64

	// ToCall is any amount we already owe to stay in
	ToCall float64

	// BetSize is our new bet or raise
	BetSize float64

	// FoldProb is the probability the opponent folds to our bet
	FoldProb float64

	// WinProbCall and TieProbCall are showdown probabilities conditional
	// on being called.
	WinProbCall float64
	TieProbCall float64

	// RiskFactor selects the utility curve, as for CallDecision
	RiskFactor float64

	// ExpectedCallersWhenCalled scales the pot contribution for multiway
	// calls. Values below 1 (including the zero value) are treated as 1.
	ExpectedCallersWhenCalled float64
}

// LoseProbCall derives the losing probability when called, clamped to [0, 1]
func (d RaiseDecision) LoseProbCall() float64 {
	return clamp01(1.0 - d.WinProbCall - d.TieProbCall)
}

// callers returns the effective multiway multiplier, never below 1
func (d RaiseDecision) callers() float64 {
	if d.ExpectedCallersWhenCalled > 1 {
		return d.ExpectedCallersWhenCalled
	}
	return 1
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
