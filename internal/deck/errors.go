package deck

import "errors"

var (
	// ErrInvalidCardFormat is wrapped by card parsing failures
	ErrInvalidCardFormat = errors.New("invalid card format")

	// ErrDeckExhausted is returned when drawing from an empty deck
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrNegativeCount is returned when a draw or peek count is negative
	ErrNegativeCount = errors.New("count must be non-negative")

	// ErrInsufficientCards is returned when a draw asks for more cards than remain
	ErrInsufficientCards = errors.New("insufficient cards in deck")
)
