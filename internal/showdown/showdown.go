// Package showdown resolves winners between players' hole cards over a
// shared board.
package showdown

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/evaluator"
)

// ErrNoPlayers is returned when no hole hands are supplied
var ErrNoPlayers = errors.New("need at least one player")

// DuplicateCardError reports a physically impossible input: the same
// card appearing in two places across hole hands and board.
type DuplicateCardError struct {
	Card   deck.Card
	First  string // origin of the first appearance, e.g. "player 0 hole"
	Second string // origin of the colliding appearance, e.g. "board[2]"
}

func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("duplicate card detected: %s appears in %s and %s", e.Card, e.Second, e.First)
}

// TooFewHoleCardsError reports a player with fewer than 2 hole cards
type TooFewHoleCardsError struct {
	Player int
	Count  int
}

func (e *TooFewHoleCardsError) Error() string {
	return fmt.Sprintf("player %d has fewer than 2 hole cards (got %d)", e.Player, e.Count)
}

// ValidateUnique checks that no physical card appears more than once
// across all players' hole cards and the board. Cards are scanned in
// player-then-board order and the first collision found is reported
// with both origins.
func ValidateUnique(holeHands [][]deck.Card, board []deck.Card) error {
	seen := make(map[deck.Card]string)

	check := func(card deck.Card, origin string) error {
		if first, ok := seen[card]; ok {
			return &DuplicateCardError{Card: card, First: first, Second: origin}
		}
		seen[card] = origin
		return nil
	}

	for i, hole := range holeHands {
		for _, c := range hole {
			if err := check(c, fmt.Sprintf("player %d hole", i)); err != nil {
				return err
			}
		}
	}
	for j, c := range board {
		if err := check(c, fmt.Sprintf("board[%d]", j)); err != nil {
			return err
		}
	}
	return nil
}

// DetermineWinners evaluates every player's best hand from hole+board
// and returns the indices holding the maximum hand value (multiple
// indices signal a split pot) along with each player's HandValue.
func DetermineWinners(holeHands [][]deck.Card, board []deck.Card) ([]int, []evaluator.HandValue, error) {
	if len(holeHands) == 0 {
		return nil, nil, ErrNoPlayers
	}

	if err := ValidateUnique(holeHands, board); err != nil {
		return nil, nil, err
	}

	for i, hole := range holeHands {
		if len(hole) < 2 {
			return nil, nil, &TooFewHoleCardsError{Player: i, Count: len(hole)}
		}
	}

	values := make([]evaluator.HandValue, len(holeHands))
	for i, hole := range holeHands {
		cards := make([]deck.Card, 0, len(hole)+len(board))
		cards = append(cards, hole...)
		cards = append(cards, board...)

		hv, err := evaluator.EvaluateBest(cards)
		if err != nil {
			return nil, nil, fmt.Errorf("player %d: %w", i, err)
		}
		values[i] = hv
	}

	best := values[0]
	for _, hv := range values[1:] {
		if best.Less(hv) {
			best = hv
		}
	}

	var winners []int
	for i, hv := range values {
		if hv.Compare(best) == 0 {
			winners = append(winners, i)
		}
	}
	return winners, values, nil
}
