// Package protocol defines the JSON messages exchanged between the
// analysis service and a presentation layer over a websocket. Cards
// cross the wire as 2-character codes ("As", "Td").
package protocol

// Message types
const (
	// Client -> Server
	TypeSimulateEquity = "simulate_equity"
	TypeHeroEquity     = "hero_equity"
	TypeDescribe       = "describe"
	TypeDecideCall     = "decide_call"
	TypeDecideRaise    = "decide_raise"

	// Server -> Client
	TypeEquityResult   = "equity_result"
	TypeHeroResult     = "hero_result"
	TypeDescription    = "description"
	TypeDecisionResult = "decision_result"
	TypeProgress       = "progress"
	TypeError          = "error"
)

// Envelope carries just the discriminator so the server can route a raw
// message to the right request type.
type Envelope struct {
	Type string `json:"type"`
}

// Client -> Server messages

// SimulateEquityRequest runs a multi-player equity simulation with all
// hole cards known.
type SimulateEquityRequest struct {
	Type      string   `json:"type"`
	HoleHands []string `json:"hole_hands"` // one concatenated code string per player, e.g. "AsKd"
	Board     string   `json:"board,omitempty"`
	Samples   int      `json:"samples,omitempty"`
}

// HeroEquityRequest runs a hero-vs-random-opponents simulation
type HeroEquityRequest struct {
	Type      string `json:"type"`
	HeroHole  string `json:"hero_hole"`
	Board     string `json:"board,omitempty"`
	Opponents int    `json:"opponents"`
	Samples   int    `json:"samples,omitempty"`
}

// DescribeRequest asks for the best-hand description of 5-7 cards
type DescribeRequest struct {
	Type  string `json:"type"`
	Cards string `json:"cards"`
}

// DecideCallRequest evaluates calling against folding
type DecideCallRequest struct {
	Type       string  `json:"type"`
	Pot        float64 `json:"pot"`
	ToCall     float64 `json:"to_call"`
	WinProb    float64 `json:"win_prob"`
	TieProb    float64 `json:"tie_prob,omitempty"`
	RiskFactor float64 `json:"risk_factor,omitempty"`
}

// DecideRaiseRequest evaluates betting/raising against checking/folding
type DecideRaiseRequest struct {
	Type            string  `json:"type"`
	Pot             float64 `json:"pot"`
	ToCall          float64 `json:"to_call"`
	BetSize         float64 `json:"bet_size"`
	FoldProb        float64 `json:"fold_prob"`
	WinProbCall     float64 `json:"win_prob_call"`
	TieProbCall     float64 `json:"tie_prob_call,omitempty"`
	RiskFactor      float64 `json:"risk_factor,omitempty"`
	ExpectedCallers float64 `json:"expected_callers,omitempty"`
}

// Server -> Client messages

// EquityResult carries per-player probabilities
type EquityResult struct {
	Type     string    `json:"type"`
	WinProbs []float64 `json:"win_probs"`
	TieProbs []float64 `json:"tie_probs"`
	Trials   int       `json:"trials"`
}

// HeroResult carries the hero's probabilities
type HeroResult struct {
	Type     string  `json:"type"`
	WinProb  float64 `json:"win_prob"`
	TieProb  float64 `json:"tie_prob"`
	LoseProb float64 `json:"lose_prob"`
	Trials   int     `json:"trials"`
}

// Description carries a best-hand phrase
type Description struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// DecisionResult carries EV/EU numbers and the recommendation
type DecisionResult struct {
	Type           string  `json:"type"`
	EVChips        float64 `json:"ev_chips"`
	EUUtility      float64 `json:"eu_utility"`
	Recommendation string  `json:"recommendation"`
}

// Progress reports trial completion during a long simulation
type Progress struct {
	Type      string `json:"type"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Error reports a failed request; Code names the contract violation
// (e.g. "duplicate_card", "board_size").
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
