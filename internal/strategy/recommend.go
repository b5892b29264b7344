package strategy

import "fmt"

// tolerance below which an expected utility counts as a close decision
const tolerance = 1e-6

// Verdict classifies an action's expected utility against its baseline
type Verdict int

const (
	// VerdictFavorable means the action beats the baseline
	VerdictFavorable Verdict = iota
	// VerdictBaseline means the baseline (fold / no raise) is better
	VerdictBaseline
	// VerdictClose means the EU is within tolerance of zero
	VerdictClose
)

// Advice is a recommendation with the expected utility that produced it
type Advice struct {
	Verdict Verdict
	EU      float64
}

// RecommendCall compares the expected utility of calling to the fold
// baseline and classifies the result.
func RecommendCall(d CallDecision) Advice {
	return classify(EVCallUtility(d))
}

// RecommendRaise compares the expected utility of betting/raising to
// the check/fold baseline and classifies the result.
func RecommendRaise(d RaiseDecision) Advice {
	return classify(EVRaiseUtility(d))
}

func classify(eu float64) Advice {
	switch {
	case eu > tolerance:
		return Advice{Verdict: VerdictFavorable, EU: eu}
	case eu < -tolerance:
		return Advice{Verdict: VerdictBaseline, EU: eu}
	default:
		return Advice{Verdict: VerdictClose, EU: eu}
	}
}

// Describe renders the advice with action-specific wording, e.g.
// "CALL (EU = 12.500)" or "NO RAISE (EU = -3.000)".
func (a Advice) Describe(action, baseline string) string {
	switch a.Verdict {
	case VerdictFavorable:
		return fmt.Sprintf("%s (EU = %.3f)", action, a.EU)
	case VerdictBaseline:
		return fmt.Sprintf("%s (EU = %.3f)", baseline, a.EU)
	default:
		return fmt.Sprintf("CLOSE DECISION (EU ≈ %.3f)", a.EU)
	}
}
