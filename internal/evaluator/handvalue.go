package evaluator

import "github.com/lox/holdem-equity/internal/deck"

// HandCategory is the totally ordered ranking of poker hand classes.
// Higher values beat lower values.
type HandCategory int

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a hand category
func (hc HandCategory) String() string {
	switch hc {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the comparable strength of a 5-card hand: a category plus
// a fixed-width tiebreaker. How many tiebreak slots are meaningful
// depends on the category (a straight uses one, a flush all five);
// unused trailing slots stay zero. Within a category every hand fills
// the same slots, so lexicographic comparison over the full array is the
// exact tuple order of poker tie-breaking.
//
// Equal HandValues represent genuinely tied hands (a split pot).
type HandValue struct {
	Category HandCategory
	TieBreak [5]deck.Rank
}

// Compare returns -1, 0 or +1 per the total order over hand values
func (hv HandValue) Compare(other HandValue) int {
	if hv.Category != other.Category {
		if hv.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := range hv.TieBreak {
		if hv.TieBreak[i] != other.TieBreak[i] {
			if hv.TieBreak[i] < other.TieBreak[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether hv ranks strictly below other
func (hv HandValue) Less(other HandValue) bool {
	return hv.Compare(other) < 0
}

// String returns a human-readable rendering, e.g. "Full House (A K)"
func (hv HandValue) String() string {
	s := hv.Category.String()
	sep := " ("
	for _, r := range hv.TieBreak {
		if r == 0 {
			break
		}
		s += sep + r.String()
		sep = " "
	}
	if sep == " " {
		s += ")"
	}
	return s
}

// Per-category constructors. Each fills exactly the slots its category's
// tiebreaker defines.

func straightFlushValue(high deck.Rank) HandValue {
	return HandValue{Category: StraightFlush, TieBreak: [5]deck.Rank{high}}
}

func quadsValue(quad, kicker deck.Rank) HandValue {
	return HandValue{Category: FourOfAKind, TieBreak: [5]deck.Rank{quad, kicker}}
}

func fullHouseValue(trip, pair deck.Rank) HandValue {
	return HandValue{Category: FullHouse, TieBreak: [5]deck.Rank{trip, pair}}
}

func flushValue(ranks [5]deck.Rank) HandValue {
	return HandValue{Category: Flush, TieBreak: ranks}
}

func straightValue(high deck.Rank) HandValue {
	return HandValue{Category: Straight, TieBreak: [5]deck.Rank{high}}
}

func tripsValue(trip, kicker1, kicker2 deck.Rank) HandValue {
	return HandValue{Category: ThreeOfAKind, TieBreak: [5]deck.Rank{trip, kicker1, kicker2}}
}

func twoPairValue(highPair, lowPair, kicker deck.Rank) HandValue {
	return HandValue{Category: TwoPair, TieBreak: [5]deck.Rank{highPair, lowPair, kicker}}
}

func pairValue(pair, kicker1, kicker2, kicker3 deck.Rank) HandValue {
	return HandValue{Category: OnePair, TieBreak: [5]deck.Rank{pair, kicker1, kicker2, kicker3}}
}

func highCardValue(ranks [5]deck.Rank) HandValue {
	return HandValue{Category: HighCard, TieBreak: ranks}
}
