package strategy

import "math"

// EVCallChips returns the chip-linear EV of calling relative to a fold
// baseline of 0.
//
// Outcomes: win +P, tie +0.5*P - 0.5*C, lose -C.
func EVCallChips(d CallDecision) float64 {
	p := d.Pot
	c := d.ToCall

	return d.WinProb*p +
		d.TieProb*(0.5*p-0.5*c) -
		d.LoseProb()*c
}

// EVCallUtility returns the expected utility of calling: the same
// outcome deltas as EVCallChips, each routed through Utility with the
// chip scale anchored to the call amount.
func EVCallUtility(d CallDecision) float64 {
	p := d.Pot
	c := d.ToCall
	scale := math.Max(1, c)

	uWin := Utility(p, d.RiskFactor, scale)
	uTie := Utility(0.5*p-0.5*c, d.RiskFactor, scale)
	uLose := Utility(-c, d.RiskFactor, scale)

	return d.WinProb*uWin + d.TieProb*uTie + d.LoseProb()*uLose
}

// EVRaiseChips returns the chip-linear EV of betting/raising relative to
// a check/fold baseline of 0.
//
// With probability FoldProb the opponent folds and we take the pot.
// Otherwise the outcome depends on the showdown: win +P + k*B,
// tie +0.5*P + 0.5*(k-1)*B - 0.5*C, lose -B - C, where k scales the pot
// contribution for multiway calls.
func EVRaiseChips(d RaiseDecision) float64 {
	p := d.Pot
	c := d.ToCall
	b := d.BetSize
	k := d.callers()

	deltaWin := p + k*b
	deltaTie := 0.5*p + 0.5*(k-1.0)*b - 0.5*c
	deltaLose := -b - c

	evIfCalled := d.WinProbCall*deltaWin +
		d.TieProbCall*deltaTie +
		d.LoseProbCall()*deltaLose

	return d.FoldProb*p + (1.0-d.FoldProb)*evIfCalled
}

// EVRaiseUtility returns the expected utility of betting/raising: the
// same fold/call branching as EVRaiseChips with every outcome routed
// through Utility, the chip scale anchored to our total investment.
func EVRaiseUtility(d RaiseDecision) float64 {
	p := d.Pot
	c := d.ToCall
	b := d.BetSize
	k := d.callers()
	scale := math.Max(1, c+b)

	uFold := Utility(p, d.RiskFactor, scale)

	uWin := Utility(p+k*b, d.RiskFactor, scale)
	uTie := Utility(0.5*p+0.5*(k-1.0)*b-0.5*c, d.RiskFactor, scale)
	uLose := Utility(-b-c, d.RiskFactor, scale)

	euIfCalled := d.WinProbCall*uWin +
		d.TieProbCall*uTie +
		d.LoseProbCall()*uLose

	return d.FoldProb*uFold + (1.0-d.FoldProb)*euIfCalled
}
