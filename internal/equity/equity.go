// Package equity estimates win/tie probabilities for Texas Hold'em
// hands by Monte Carlo sampling over the unknown cards.
package equity

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/internal/showdown"
)

var (
	// ErrBoardSize is returned when the board has more than 5 cards
	ErrBoardSize = errors.New("board must have between 0 and 5 cards")

	// ErrInvalidSampleCount is returned when samples < 1
	ErrInvalidSampleCount = errors.New("samples must be at least 1")

	// ErrNoOpponents is returned when a hero simulation has no opponents
	ErrNoOpponents = errors.New("need at least one opponent")
)

// maxWorkers caps parallelism; more workers than this shows diminishing returns
const maxWorkers = 8

// progressInterval is how often the progress callback fires during a run
const progressInterval = 200 * time.Millisecond

// Result holds per-player win/tie probability estimates.
//
// Tie accounting is deliberate: every member of a split-pot group is
// credited a full tie unit per trial, not a 1/group-size share, so tie
// probabilities are per-player "was in a split" frequencies.
type Result struct {
	WinProbs []float64
	TieProbs []float64

	// Trials is the number of completed trials the probabilities are
	// based on. It equals the requested sample count unless the run was
	// cancelled or ran out of time budget, in which case the partial
	// counts are still a valid (noisier) estimate.
	Trials int
}

// HeroResult holds the hero's win/tie probability estimate
type HeroResult struct {
	WinProb float64
	TieProb float64
	Trials  int
}

// LoseProb derives the hero's losing probability, clamped to >= 0
func (r HeroResult) LoseProb() float64 {
	lp := 1.0 - r.WinProb - r.TieProb
	if lp < 0 {
		return 0
	}
	return lp
}

// Simulator runs Monte Carlo equity estimates. Trials are spread across
// workers, each owning a forked random generator and local counters;
// counters are summed once at the end, so no locks are needed.
type Simulator struct {
	logger     *log.Logger
	seed       int64
	workers    int
	timeBudget time.Duration
	clock      quartz.Clock
	progress   func(completed, total int)
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLogger sets the logger used for debug output
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// WithSeed fixes the random seed for reproducible runs
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithWorkers sets the number of parallel workers
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeBudget bounds a run's wall-clock duration. When the budget
// expires the run stops and reports the trials completed so far.
func WithTimeBudget(d time.Duration) Option {
	return func(s *Simulator) { s.timeBudget = d }
}

// WithClock substitutes the clock used for the time budget and progress
// ticks. Tests drive a quartz mock through this.
func WithClock(clock quartz.Clock) Option {
	return func(s *Simulator) { s.clock = clock }
}

// WithProgress registers a callback invoked periodically with the
// number of completed trials. It is called from a single goroutine.
func WithProgress(fn func(completed, total int)) Option {
	return func(s *Simulator) { s.progress = fn }
}

// New creates a Simulator
func New(opts ...Option) *Simulator {
	s := &Simulator{
		logger:  log.Default(),
		seed:    time.Now().UnixNano(),
		workers: min(runtime.NumCPU(), maxWorkers),
		clock:   quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SimulateEquity estimates win/tie probabilities for players whose hole
// cards are all known, completing the board at random each trial.
//
// When the board already has 5 cards there is no randomness left: the
// winners are resolved once, a sole winner gets win probability 1, and
// every member of a tied group gets tie probability 1.
func (s *Simulator) SimulateEquity(ctx context.Context, holeHands [][]deck.Card, board []deck.Card, samples int) (*Result, error) {
	if len(holeHands) == 0 {
		return nil, showdown.ErrNoPlayers
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrBoardSize, len(board))
	}
	for i, hole := range holeHands {
		if len(hole) < 2 {
			return nil, &showdown.TooFewHoleCardsError{Player: i, Count: len(hole)}
		}
	}
	if samples < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, samples)
	}
	if err := showdown.ValidateUnique(holeHands, board); err != nil {
		return nil, err
	}

	numPlayers := len(holeHands)

	if len(board) == 5 {
		winners, _, err := showdown.DetermineWinners(holeHands, board)
		if err != nil {
			return nil, err
		}
		result := &Result{
			WinProbs: make([]float64, numPlayers),
			TieProbs: make([]float64, numPlayers),
			Trials:   1,
		}
		if len(winners) == 1 {
			result.WinProbs[winners[0]] = 1
		} else {
			for _, w := range winners {
				result.TieProbs[w] = 1
			}
		}
		return result, nil
	}

	known := make([]deck.Card, 0, 2*numPlayers+len(board))
	for _, hole := range holeHands {
		known = append(known, hole...)
	}
	known = append(known, board...)
	remaining := remainingCards(known)
	missing := 5 - len(board)

	s.logger.Debug("starting equity simulation",
		"players", numPlayers, "board", len(board), "samples", samples, "workers", s.workers)

	tallies, completed, err := s.run(ctx, samples, numPlayers, func(rng *rand.Rand, t *tally) error {
		d := deck.NewFrom(rng, remaining)
		d.Shuffle()

		drawn, err := d.DrawMany(missing)
		if err != nil {
			return err
		}
		fullBoard := make([]deck.Card, 0, 5)
		fullBoard = append(fullBoard, board...)
		fullBoard = append(fullBoard, drawn...)

		winners, _, err := showdown.DetermineWinners(holeHands, fullBoard)
		if err != nil {
			return err
		}
		if len(winners) == 1 {
			t.wins[winners[0]]++
		} else {
			for _, w := range winners {
				t.ties[w]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		WinProbs: make([]float64, numPlayers),
		TieProbs: make([]float64, numPlayers),
		Trials:   completed,
	}
	for i := 0; i < numPlayers; i++ {
		result.WinProbs[i] = float64(tallies.wins[i]) / float64(completed)
		result.TieProbs[i] = float64(tallies.ties[i]) / float64(completed)
	}
	return result, nil
}

// SimulateHeroVsRandomOpponents estimates the hero's win/tie probability
// against opponents whose hole cards are randomized every trial along
// with the missing board cards. The hero is always player index 0.
func (s *Simulator) SimulateHeroVsRandomOpponents(ctx context.Context, heroHole []deck.Card, board []deck.Card, numOpponents, samples int) (*HeroResult, error) {
	if len(heroHole) < 2 {
		return nil, &showdown.TooFewHoleCardsError{Player: 0, Count: len(heroHole)}
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrBoardSize, len(board))
	}
	if numOpponents < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoOpponents, numOpponents)
	}
	if samples < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, samples)
	}
	if err := showdown.ValidateUnique([][]deck.Card{heroHole}, board); err != nil {
		return nil, err
	}

	known := make([]deck.Card, 0, len(heroHole)+len(board))
	known = append(known, heroHole...)
	known = append(known, board...)
	remaining := remainingCards(known)
	missing := 5 - len(board)

	s.logger.Debug("starting hero simulation",
		"opponents", numOpponents, "board", len(board), "samples", samples, "workers", s.workers)

	tallies, completed, err := s.run(ctx, samples, 1, func(rng *rand.Rand, t *tally) error {
		d := deck.NewFrom(rng, remaining)
		d.Shuffle()

		holeHands := make([][]deck.Card, 0, numOpponents+1)
		holeHands = append(holeHands, heroHole)
		for i := 0; i < numOpponents; i++ {
			opp, err := d.DrawMany(2)
			if err != nil {
				return err
			}
			holeHands = append(holeHands, opp)
		}

		drawn, err := d.DrawMany(missing)
		if err != nil {
			return err
		}
		fullBoard := make([]deck.Card, 0, 5)
		fullBoard = append(fullBoard, board...)
		fullBoard = append(fullBoard, drawn...)

		winners, _, err := showdown.DetermineWinners(holeHands, fullBoard)
		if err != nil {
			return err
		}
		if len(winners) == 1 {
			if winners[0] == 0 {
				t.wins[0]++
			}
		} else {
			for _, w := range winners {
				if w == 0 {
					t.ties[0]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &HeroResult{
		WinProb: float64(tallies.wins[0]) / float64(completed),
		TieProb: float64(tallies.ties[0]) / float64(completed),
		Trials:  completed,
	}, nil
}

// tally holds one worker's local counters
type tally struct {
	wins []int
	ties []int
}

func newTally(numPlayers int) *tally {
	return &tally{
		wins: make([]int, numPlayers),
		ties: make([]int, numPlayers),
	}
}

// run spreads samples trials across workers. Each worker owns a forked
// generator and a local tally; tallies are summed after all workers
// finish. Cancellation and time-budget expiry stop workers between
// trials, leaving the completed counts intact.
func (s *Simulator) run(ctx context.Context, samples, numPlayers int, trial func(*rand.Rand, *tally) error) (*tally, int, error) {
	workers := min(s.workers, samples)

	runCtx := ctx
	var cancel context.CancelFunc
	if s.timeBudget > 0 {
		runCtx, cancel = context.WithCancel(ctx)
		defer cancel()
		timer := s.clock.AfterFunc(s.timeBudget, cancel)
		defer timer.Stop()
	}

	var completed atomic.Int64

	if s.progress != nil {
		tickCtx, tickCancel := context.WithCancel(context.Background())
		ticker := s.clock.TickerFunc(tickCtx, progressInterval, func() error {
			s.progress(int(completed.Load()), samples)
			return nil
		}, "equity-progress")
		defer func() {
			tickCancel()
			_ = ticker.Wait()
		}()
	}

	rootRng := randutil.New(s.seed)
	tallies := make([]*tally, workers)
	seeds := make([]*rand.Rand, workers)
	for w := 0; w < workers; w++ {
		tallies[w] = newTally(numPlayers)
		seeds[w] = randutil.Fork(rootRng)
	}

	g := new(errgroup.Group)
	perWorker := samples / workers
	remainder := samples % workers

	for w := 0; w < workers; w++ {
		workerTrials := perWorker
		if w < remainder {
			workerTrials++
		}
		rng := seeds[w]
		local := tallies[w]

		g.Go(func() error {
			for i := 0; i < workerTrials; i++ {
				select {
				case <-runCtx.Done():
					return nil // partial counts remain valid
				default:
				}
				if err := trial(rng, local); err != nil {
					return err
				}
				completed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := newTally(numPlayers)
	for _, t := range tallies {
		for i := 0; i < numPlayers; i++ {
			total.wins[i] += t.wins[i]
			total.ties[i] += t.ties[i]
		}
	}

	done := int(completed.Load())
	if done == 0 {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, context.DeadlineExceeded
	}
	if done < samples {
		s.logger.Debug("simulation stopped early", "completed", done, "requested", samples)
	}
	if s.progress != nil {
		s.progress(done, samples)
	}
	return total, done, nil
}

// remainingCards returns the 52-card set minus the known cards, in
// generation order.
func remainingCards(known []deck.Card) []deck.Card {
	used := make(map[deck.Card]bool, len(known))
	for _, c := range known {
		used[c] = true
	}

	remaining := make([]deck.Card, 0, 52-len(known))
	for suit := deck.Clubs; suit <= deck.Spades; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			card := deck.NewCard(rank, suit)
			if !used[card] {
				remaining = append(remaining, card)
			}
		}
	}
	return remaining
}
