package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/evaluator"
	"github.com/lox/holdem-equity/internal/server"
	"github.com/lox/holdem-equity/internal/strategy"
)

type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Seed    *int64 `help:"Random seed for reproducible results"`

	Odds     OddsCmd     `cmd:"" help:"Estimate equity for players with known hole cards"`
	Hero     HeroCmd     `cmd:"" help:"Estimate hero equity against random opponents"`
	Describe DescribeCmd `cmd:"" help:"Describe the best 5-card hand from 5-7 cards"`
	Call     CallCmd     `cmd:"" help:"Evaluate calling against folding"`
	Raise    RaiseCmd    `cmd:"" help:"Evaluate betting or raising"`
	Serve    ServeCmd    `cmd:"" help:"Run the websocket analysis service"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	adviceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
)

// runContext carries shared state into subcommand Run methods
type runContext struct {
	logger *log.Logger
	seed   *int64
}

func (rc *runContext) simulatorOptions() []equity.Option {
	opts := []equity.Option{equity.WithLogger(rc.logger)}
	if rc.seed != nil {
		opts = append(opts, equity.WithSeed(*rc.seed))
	}
	return opts
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-odds"),
		kong.Description("Texas Hold'em equity estimation and decision analysis"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	err := ctx.Run(&runContext{logger: logger, seed: cli.Seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

// OddsCmd estimates per-player equity when every hand is known
type OddsCmd struct {
	Hands   []string      `arg:"" required:"" help:"Player hole cards, one argument per player (e.g. AsKd QhQs)"`
	Board   string        `short:"b" help:"Community board cards (e.g. Td7s8h)"`
	Samples int           `short:"n" default:"50000" help:"Number of Monte Carlo samples"`
	Workers int           `short:"w" help:"Number of parallel workers (default: CPU count)"`
	Budget  time.Duration `help:"Wall-clock budget; partial results are reported when it expires"`
}

func (c *OddsCmd) Run(rc *runContext) error {
	holeHands, err := parseHands(c.Hands)
	if err != nil {
		return err
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	opts := rc.simulatorOptions()
	if c.Workers > 0 {
		opts = append(opts, equity.WithWorkers(c.Workers))
	}
	if c.Budget > 0 {
		opts = append(opts, equity.WithTimeBudget(c.Budget))
	}
	sim := equity.New(opts...)

	start := time.Now()
	result, err := sim.SimulateEquity(context.Background(), holeHands, board, c.Samples)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if len(board) > 0 {
		fmt.Printf("%s %s\n\n", headerStyle.Render("Board:"), deck.FormatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t\n",
		headerStyle.Render("Hand"),
		headerStyle.Render("Win"),
		headerStyle.Render("Tie"))
	for i, hole := range holeHands {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n",
			handStyle.Render(deck.FormatCards(hole)),
			winStyle.Render(fmt.Sprintf("%.2f%%", result.WinProbs[i]*100)),
			tieStyle.Render(fmt.Sprintf("%.2f%%", result.TieProbs[i]*100)))
	}
	w.Flush()

	fmt.Printf("\n%d trials in %s\n", result.Trials, elapsed.Round(time.Millisecond))
	return nil
}

// HeroCmd estimates hero equity against opponents with random hole cards
type HeroCmd struct {
	Hole      string        `arg:"" required:"" help:"Hero hole cards (e.g. AsKd)"`
	Board     string        `short:"b" help:"Community board cards"`
	Opponents int           `short:"o" default:"1" help:"Number of random opponents"`
	Samples   int           `short:"n" default:"50000" help:"Number of Monte Carlo samples"`
	Workers   int           `short:"w" help:"Number of parallel workers (default: CPU count)"`
	Budget    time.Duration `help:"Wall-clock budget; partial results are reported when it expires"`
}

func (c *HeroCmd) Run(rc *runContext) error {
	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole: %w", err)
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	opts := rc.simulatorOptions()
	if c.Workers > 0 {
		opts = append(opts, equity.WithWorkers(c.Workers))
	}
	if c.Budget > 0 {
		opts = append(opts, equity.WithTimeBudget(c.Budget))
	}
	sim := equity.New(opts...)

	start := time.Now()
	result, err := sim.SimulateHeroVsRandomOpponents(context.Background(), hole, board, c.Opponents, c.Samples)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%s %s", headerStyle.Render("Hero:"), handStyle.Render(deck.FormatCards(hole)))
	if len(board) > 0 {
		fmt.Printf("   %s %s", headerStyle.Render("Board:"), deck.FormatCards(board))
	}
	fmt.Printf("   vs %d random opponent(s)\n\n", c.Opponents)

	fmt.Printf("Win:  %s\n", winStyle.Render(fmt.Sprintf("%.2f%%", result.WinProb*100)))
	fmt.Printf("Tie:  %s\n", tieStyle.Render(fmt.Sprintf("%.2f%%", result.TieProb*100)))
	fmt.Printf("Lose: %s\n", loseStyle.Render(fmt.Sprintf("%.2f%%", result.LoseProb()*100)))

	fmt.Printf("\n%d trials in %s\n", result.Trials, elapsed.Round(time.Millisecond))
	return nil
}

// DescribeCmd prints the best-hand description for 5-7 cards
type DescribeCmd struct {
	Cards string `arg:"" required:"" help:"5 to 7 cards (e.g. AcAdKcKsAh)"`
}

func (c *DescribeCmd) Run(rc *runContext) error {
	cards, err := deck.ParseCards(c.Cards)
	if err != nil {
		return err
	}
	hv, err := evaluator.EvaluateBest(cards)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", handStyle.Render(deck.FormatCards(cards)), evaluator.Describe(hv))
	return nil
}

// CallCmd evaluates the call-or-fold decision
type CallCmd struct {
	Pot    float64 `required:"" help:"Current pot size in chips"`
	ToCall float64 `required:"" help:"Chips required to call"`
	Win    float64 `required:"" help:"Estimated win probability (0-1)"`
	Tie    float64 `help:"Estimated tie probability (0-1)"`
	Risk   float64 `help:"Risk style, -1 (averse) to 1 (seeking)"`
}

func (c *CallCmd) Run(rc *runContext) error {
	d := strategy.CallDecision{
		Pot:        c.Pot,
		ToCall:     c.ToCall,
		WinProb:    c.Win,
		TieProb:    c.Tie,
		RiskFactor: c.Risk,
	}
	advice := strategy.RecommendCall(d)

	fmt.Printf("EV (chips):   %+.2f\n", strategy.EVCallChips(d))
	fmt.Printf("EU (utility): %+.4f\n", advice.EU)
	fmt.Printf("\n%s\n", adviceStyle.Render(advice.Describe("CALL", "FOLD")))
	return nil
}

// RaiseCmd evaluates the bet/raise decision
type RaiseCmd struct {
	Pot     float64 `required:"" help:"Current pot size in chips"`
	ToCall  float64 `help:"Chips required to call before raising"`
	Bet     float64 `required:"" help:"Additional chips to bet or raise"`
	Fold    float64 `required:"" help:"Probability every opponent folds (0-1)"`
	Win     float64 `required:"" help:"Win probability when called (0-1)"`
	Tie     float64 `help:"Tie probability when called (0-1)"`
	Risk    float64 `help:"Risk style, -1 (averse) to 1 (seeking)"`
	Callers float64 `default:"1" help:"Expected number of callers when not folding"`
}

func (c *RaiseCmd) Run(rc *runContext) error {
	d := strategy.RaiseDecision{
		Pot:                       c.Pot,
		ToCall:                    c.ToCall,
		BetSize:                   c.Bet,
		FoldProb:                  c.Fold,
		WinProbCall:               c.Win,
		TieProbCall:               c.Tie,
		RiskFactor:                c.Risk,
		ExpectedCallersWhenCalled: c.Callers,
	}
	advice := strategy.RecommendRaise(d)

	fmt.Printf("EV (chips):   %+.2f\n", strategy.EVRaiseChips(d))
	fmt.Printf("EU (utility): %+.4f\n", advice.EU)
	fmt.Printf("\n%s\n", adviceStyle.Render(advice.Describe("RAISE/BET", "NO RAISE")))
	return nil
}

// ServeCmd runs the websocket analysis service
type ServeCmd struct {
	Config string `short:"c" default:"holdem-odds.hcl" help:"Path to HCL config file"`
}

func (c *ServeCmd) Run(rc *runContext) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	if lvl, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		rc.logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, rc.logger)
	return srv.ListenAndServe(ctx)
}

// parseHands parses one hole-hand argument per player, tolerating spaces
// inside a quoted argument.
func parseHands(args []string) ([][]deck.Card, error) {
	hands := make([][]deck.Card, 0, len(args))
	for i, arg := range args {
		hand, err := deck.ParseCards(strings.ReplaceAll(strings.TrimSpace(arg), " ", ""))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) < 2 {
			return nil, fmt.Errorf("hand %d: need at least 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}
	return hands, nil
}
