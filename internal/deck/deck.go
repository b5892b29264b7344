package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Deck is a mutable draw pile of unique cards. The deck owns the random
// source used for shuffling; callers pass one in so simulations stay
// reproducible and workers never share a generator.
//
// Cards are drawn from the live end of the sequence, so a deck's size
// only decreases between resets.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck in fixed suit-major generation order.
// The deck is not shuffled.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// NewFrom creates a deck from a caller-supplied set of cards, typically a
// reduced deck with known cards excluded. The slice is copied. No
// uniqueness check is performed; callers guarantee the cards are unique.
func NewFrom(rng *rand.Rand, cards []Card) *Deck {
	d := &Deck{
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	copy(d.cards, cards)
	return d
}

// Shuffle produces a uniformly random permutation of the remaining cards
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns one card from the live end of the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// DrawMany removes and returns n cards in one atomic step, preserving the
// per-card removal order of repeated Draw calls.
func (d *Deck) DrawMany(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeCount, n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}

	cards := make([]Card, n)
	for i := range cards {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}

// Peek returns the last n cards without removing them. If n exceeds the
// deck size all remaining cards are returned; a lenient read by contract.
func (d *Deck) Peek(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeCount, n)
	}
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[len(d.cards)-n:])
	return cards, nil
}

// Remaining returns a defensive snapshot copy of the remaining cards
func (d *Deck) Remaining() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}
