package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-equity/internal/deck"
)

// Describe renders a HandValue as a canonical human-readable phrase,
// e.g. "Full house, Aces over Tens" or "Royal flush".
func Describe(hv HandValue) string {
	tb := hv.TieBreak

	switch hv.Category {
	case StraightFlush:
		high := tb[0]
		if high == deck.Ace {
			return "Royal flush"
		}
		return fmt.Sprintf("%s-high straight flush", high.Word())

	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %s with %s kicker", tb[0].PluralWord(), tb[1].Word())

	case FullHouse:
		return fmt.Sprintf("Full house, %s over %s", tb[0].PluralWord(), tb[1].PluralWord())

	case Flush:
		return fmt.Sprintf("Flush, %s", joinRankWords(tb[:], " "))

	case Straight:
		return fmt.Sprintf("%s-high straight", tb[0].Word())

	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %s with %s kickers", tb[0].PluralWord(), joinRankWords(tb[1:3], ", "))

	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s with %s kicker",
			tb[0].PluralWord(), tb[1].PluralWord(), tb[2].Word())

	case OnePair:
		return fmt.Sprintf("Pair of %s with %s kickers", tb[0].PluralWord(), joinRankWords(tb[1:4], ", "))

	case HighCard:
		return fmt.Sprintf("%s-high (%s)", tb[0].Word(), joinRankWords(tb[:], ", "))
	}

	return hv.String()
}

// DescribeBestHand evaluates the best 5-card hand from the given cards
// and describes it in words.
func DescribeBestHand(cards []deck.Card) (string, error) {
	hv, err := EvaluateBest(cards)
	if err != nil {
		return "", err
	}
	return Describe(hv), nil
}

func joinRankWords(ranks []deck.Rank, sep string) string {
	words := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if r == 0 {
			break
		}
		words = append(words, r.Word())
	}
	return strings.Join(words, sep)
}
