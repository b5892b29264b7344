package evaluator

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-equity/internal/deck"
)

var (
	// ErrInvalidHandSize is returned by Evaluate5 for anything other than exactly 5 cards
	ErrInvalidHandSize = errors.New("exactly 5 cards are required")

	// ErrTooFewCards is returned by EvaluateBest for fewer than 5 cards
	ErrTooFewCards = errors.New("need at least 5 cards to evaluate a poker hand")
)

// Evaluate5 scores exactly 5 cards into a HandValue.
//
// The category is derived from the rank multiplicity signature (e.g.
// quad+kicker, trips+pair) plus flush and straight detection. The wheel
// A-2-3-4-5 counts as a straight with high card 5, ranking below a
// 6-high straight.
func Evaluate5(cards []deck.Card) (HandValue, error) {
	if len(cards) != 5 {
		return HandValue{}, fmt.Errorf("%w: got %d", ErrInvalidHandSize, len(cards))
	}

	var counts [deck.Ace + 1]int
	isFlush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			isFlush = false
		}
	}

	// Distinct ranks, descending
	distinct := make([]deck.Rank, 0, 5)
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] > 0 {
			distinct = append(distinct, r)
		}
	}

	isStraight := false
	var straightHigh deck.Rank
	if len(distinct) == 5 {
		switch {
		case distinct[0] == deck.Ace && distinct[1] == deck.Five &&
			distinct[2] == deck.Four && distinct[3] == deck.Three && distinct[4] == deck.Two:
			// The wheel: ace plays low
			isStraight = true
			straightHigh = deck.Five
		case distinct[0]-distinct[4] == 4:
			isStraight = true
			straightHigh = distinct[0]
		}
	}

	if isFlush && isStraight {
		return straightFlushValue(straightHigh), nil
	}

	quad := highestWithCount(counts, 4)
	if quad != 0 {
		return quadsValue(quad, highestWithCount(counts, 1)), nil
	}

	trip := highestWithCount(counts, 3)
	if trip != 0 {
		if pair := highestWithCount(counts, 2); pair != 0 {
			return fullHouseValue(trip, pair), nil
		}
	}

	if isFlush {
		return flushValue(sortedRanksDesc(counts)), nil
	}

	if isStraight {
		return straightValue(straightHigh), nil
	}

	if trip != 0 {
		kickers := ranksWithCount(counts, 1)
		return tripsValue(trip, kickers[0], kickers[1]), nil
	}

	pairs := ranksWithCount(counts, 2)
	switch len(pairs) {
	case 2:
		return twoPairValue(pairs[0], pairs[1], highestWithCount(counts, 1)), nil
	case 1:
		kickers := ranksWithCount(counts, 1)
		return pairValue(pairs[0], kickers[0], kickers[1], kickers[2]), nil
	}

	return highCardValue(sortedRanksDesc(counts)), nil
}

// sortedRanksDesc expands the rank counts back into all five ranks in
// descending order (multiplicity preserved).
func sortedRanksDesc(counts [deck.Ace + 1]int) [5]deck.Rank {
	var ranks [5]deck.Rank
	i := 0
	for r := deck.Ace; r >= deck.Two && i < 5; r-- {
		for n := counts[r]; n > 0 && i < 5; n-- {
			ranks[i] = r
			i++
		}
	}
	return ranks
}

// EvaluateBest returns the strongest 5-card HandValue makeable from 5 or
// more cards. Exactly 5 delegates directly; otherwise every 5-card
// subset is evaluated and the maximum kept — for the 7-card hold'em case
// that is 21 subsets. The enumeration is exact by design; no shortcut
// may replace it.
func EvaluateBest(cards []deck.Card) (HandValue, error) {
	if len(cards) < 5 {
		return HandValue{}, fmt.Errorf("%w: got %d", ErrTooFewCards, len(cards))
	}
	if len(cards) == 5 {
		return Evaluate5(cards)
	}

	var best HandValue
	found := false
	combo := make([]deck.Card, 5)
	var err error
	forEachChoose5(len(cards), func(idx [5]int) {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		hv, evalErr := Evaluate5(combo)
		if evalErr != nil {
			err = evalErr
			return
		}
		if !found || best.Less(hv) {
			best = hv
			found = true
		}
	})
	if err != nil {
		return HandValue{}, err
	}
	return best, nil
}

// CompareHands evaluates both card sets via EvaluateBest and returns
// -1, 0 or +1 per the hand value total order.
func CompareHands(a, b []deck.Card) (int, error) {
	ha, err := EvaluateBest(a)
	if err != nil {
		return 0, err
	}
	hb, err := EvaluateBest(b)
	if err != nil {
		return 0, err
	}
	return ha.Compare(hb), nil
}

// forEachChoose5 invokes fn for every 5-element index combination of [0,n)
func forEachChoose5(n int, fn func([5]int)) {
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						fn([5]int{a, b, c, d, e})
					}
				}
			}
		}
	}
}

// highestWithCount returns the highest rank appearing exactly n times,
// or 0 when none does.
func highestWithCount(counts [deck.Ace + 1]int, n int) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] == n {
			return r
		}
	}
	return 0
}

// ranksWithCount returns all ranks appearing exactly n times, descending
func ranksWithCount(counts [deck.Ace + 1]int, n int) []deck.Rank {
	var ranks []deck.Rank
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] == n {
			ranks = append(ranks, r)
		}
	}
	return ranks
}
