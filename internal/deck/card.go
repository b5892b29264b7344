package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. Suits carry no ordering significance in
// hand strength; the numeric order only fixes deck generation order.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Char returns the single-letter suit code used in card strings ("c", "d", "h", "s")
func (s Suit) Char() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Rank represents a card rank with poker values: Two=2 through Ace=14 (ace high)
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the single-character label of a rank
func (r Rank) String() string {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine:
		return string(rune('0' + int(r)))
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Word returns the singular rank word ("Two" .. "Ace") for hand descriptions
func (r Rank) Word() string {
	switch r {
	case Two:
		return "Two"
	case Three:
		return "Three"
	case Four:
		return "Four"
	case Five:
		return "Five"
	case Six:
		return "Six"
	case Seven:
		return "Seven"
	case Eight:
		return "Eight"
	case Nine:
		return "Nine"
	case Ten:
		return "Ten"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return "?"
	}
}

// PluralWord returns the plural rank word ("Twos" .. "Aces")
func (r Rank) PluralWord() string {
	if r == Six {
		return "Sixes"
	}
	return r.Word() + "s"
}

// Card represents a playing card. Cards are immutable values: two cards
// are equal iff rank and suit both match, which is what deduplication
// relies on.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the display form of a card (e.g. "A♠", "T♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the 2-character card code (e.g. "As", "Th") accepted by ParseCard
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Char()
}

// Less orders cards structurally by rank then suit
func (c Card) Less(other Card) bool {
	if c.Rank != other.Rank {
		return c.Rank < other.Rank
	}
	return c.Suit < other.Suit
}

// ParseCard parses a 2-character card code like "As" or "td".
// Both characters are case-insensitive. Returns an error wrapping
// ErrInvalidCardFormat for anything malformed.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q must be 2 characters", ErrInvalidCardFormat, s)
	}

	var rank Rank
	switch s[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(s[0] - '0')
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("%w: unknown rank character %q", ErrInvalidCardFormat, string(s[0]))
	}

	var suit Suit
	switch s[1] {
	case 'C', 'c':
		suit = Clubs
	case 'D', 'd':
		suit = Diamonds
	case 'H', 'h':
		suit = Hearts
	case 'S', 's':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("%w: unknown suit character %q", ErrInvalidCardFormat, string(s[1]))
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a concatenated string of card codes like "AsKdTh"
func ParseCards(s string) ([]Card, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has odd length", ErrInvalidCardFormat, s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is a test helper that panics on malformed input
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards as a space-separated display string
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
