package equity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/showdown"
)

func hands(strs ...string) [][]deck.Card {
	out := make([][]deck.Card, 0, len(strs))
	for _, s := range strs {
		out = append(out, deck.MustParseCards(s))
	}
	return out
}

func TestSimulateEquityCompleteBoard(t *testing.T) {
	// Nothing left to sample: the aces hold on a dry board
	sim := New(WithSeed(1))
	board := deck.MustParseCards("QhQs2c3d4h")

	result, err := sim.SimulateEquity(context.Background(), hands("AcAd", "KcKd"), board, 10000)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0}, result.WinProbs)
	assert.Equal(t, []float64{0, 0}, result.TieProbs)
	assert.Equal(t, 1, result.Trials)
}

func TestSimulateEquityCompleteBoardSplit(t *testing.T) {
	// Both players play the board straight; every member of the split
	// group is credited a full tie.
	sim := New(WithSeed(1))
	board := deck.MustParseCards("9c8d7h6s5c")

	result, err := sim.SimulateEquity(context.Background(), hands("2c2d", "3c3d"), board, 10000)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, result.WinProbs)
	assert.Equal(t, []float64{1, 1}, result.TieProbs)
}

func TestSimulateEquityDeterministicWithSeed(t *testing.T) {
	board := deck.MustParseCards("Qh2c7d")
	holeHands := hands("AcAd", "KcKd")

	run := func() *Result {
		sim := New(WithSeed(42), WithWorkers(4))
		result, err := sim.SimulateEquity(context.Background(), holeHands, board, 2000)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	assert.Equal(t, first.WinProbs, second.WinProbs)
	assert.Equal(t, first.TieProbs, second.TieProbs)
	assert.Equal(t, 2000, first.Trials)
}

func TestSimulateEquityProbabilitiesAreSane(t *testing.T) {
	sim := New(WithSeed(7))

	result, err := sim.SimulateEquity(context.Background(), hands("AcAd", "7h2d"), nil, 5000)
	require.NoError(t, err)

	// Pocket aces dominate a random weak hand preflop
	assert.Greater(t, result.WinProbs[0], 0.75)
	assert.Less(t, result.WinProbs[1], 0.25)

	for i := 0; i < 2; i++ {
		assert.GreaterOrEqual(t, result.WinProbs[i], 0.0)
		assert.LessOrEqual(t, result.WinProbs[i]+result.TieProbs[i], 1.0)
	}
}

func TestSimulateEquityValidation(t *testing.T) {
	sim := New(WithSeed(1))
	ctx := context.Background()

	_, err := sim.SimulateEquity(ctx, nil, nil, 100)
	assert.ErrorIs(t, err, showdown.ErrNoPlayers)

	_, err = sim.SimulateEquity(ctx, hands("AcAd"), deck.MustParseCards("2c3c4c5c6c7c"), 100)
	assert.ErrorIs(t, err, ErrBoardSize)

	_, err = sim.SimulateEquity(ctx, hands("AcAd", "Kc"), nil, 100)
	var tooFew *showdown.TooFewHoleCardsError
	assert.ErrorAs(t, err, &tooFew)

	_, err = sim.SimulateEquity(ctx, hands("AcAd", "KcKd"), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSampleCount)

	_, err = sim.SimulateEquity(ctx, hands("AcAd", "AcKd"), nil, 100)
	var dup *showdown.DuplicateCardError
	assert.ErrorAs(t, err, &dup)
}

func TestSimulateHeroVsRandomOpponents(t *testing.T) {
	sim := New(WithSeed(11))

	result, err := sim.SimulateHeroVsRandomOpponents(context.Background(), deck.MustParseCards("AcAd"), nil, 1, 5000)
	require.NoError(t, err)

	// Heads-up pocket aces win roughly 85% against a random hand
	assert.Greater(t, result.WinProb, 0.75)
	assert.Less(t, result.WinProb, 0.95)
	assert.Equal(t, 5000, result.Trials)

	sum := result.WinProb + result.TieProb + result.LoseProb()
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSimulateHeroEquityDropsWithMoreOpponents(t *testing.T) {
	hero := deck.MustParseCards("AcAd")

	winVs := func(opponents int) float64 {
		sim := New(WithSeed(13))
		result, err := sim.SimulateHeroVsRandomOpponents(context.Background(), hero, nil, opponents, 4000)
		require.NoError(t, err)
		return result.WinProb
	}

	assert.Greater(t, winVs(1), winVs(4))
}

func TestSimulateHeroValidation(t *testing.T) {
	sim := New(WithSeed(1))
	ctx := context.Background()

	_, err := sim.SimulateHeroVsRandomOpponents(ctx, deck.MustParseCards("Ac"), nil, 1, 100)
	var tooFew *showdown.TooFewHoleCardsError
	assert.ErrorAs(t, err, &tooFew)

	_, err = sim.SimulateHeroVsRandomOpponents(ctx, deck.MustParseCards("AcAd"), nil, 0, 100)
	assert.ErrorIs(t, err, ErrNoOpponents)

	_, err = sim.SimulateHeroVsRandomOpponents(ctx, deck.MustParseCards("AcAd"), nil, 1, -5)
	assert.ErrorIs(t, err, ErrInvalidSampleCount)
}

func TestSimulateEquityCancelledContext(t *testing.T) {
	sim := New(WithSeed(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.SimulateEquity(ctx, hands("AcAd", "KcKd"), nil, 1000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateEquityTimeBudgetNotExpiring(t *testing.T) {
	// A mock clock never fires the budget timer, so the run completes
	// every requested trial.
	mClock := quartz.NewMock(t)
	sim := New(WithSeed(1), WithTimeBudget(time.Second), WithClock(mClock))

	result, err := sim.SimulateEquity(context.Background(), hands("AcAd", "KcKd"), nil, 500)
	require.NoError(t, err)
	assert.Equal(t, 500, result.Trials)
}

func TestProgressReportsCompletion(t *testing.T) {
	var mu sync.Mutex
	var lastCompleted, lastTotal int

	mClock := quartz.NewMock(t)
	sim := New(
		WithSeed(1),
		WithClock(mClock),
		WithProgress(func(completed, total int) {
			mu.Lock()
			defer mu.Unlock()
			lastCompleted, lastTotal = completed, total
		}),
	)

	_, err := sim.SimulateEquity(context.Background(), hands("AcAd", "KcKd"), nil, 300)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 300, lastCompleted)
	assert.Equal(t, 300, lastTotal)
}
