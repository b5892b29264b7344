// Package server exposes the equity and decision analysis over a
// localhost websocket so a browser UI can drive one hand's analysis.
// One user, one connection at a time is the expected shape; nothing is
// persisted between requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/evaluator"
	"github.com/lox/holdem-equity/internal/protocol"
	"github.com/lox/holdem-equity/internal/showdown"
	"github.com/lox/holdem-equity/internal/strategy"
)

// Server is the websocket analysis service
type Server struct {
	cfg      *Config
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates a server from config
func New(cfg *Config, logger *log.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Localhost analysis service; the UI is served from file:// or a dev server
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Server.Address, s.cfg.Server.Port)
}

// ListenAndServe runs the HTTP listener until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{
		Addr:    s.Addr(),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", s.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// wsConn wraps a websocket connection with a write lock so progress
// updates and results never interleave mid-frame.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	defer raw.Close()

	conn := &wsConn{conn: raw}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.logger.Info("client connected", "remote", raw.RemoteAddr())

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("client read error", "err", err)
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.sendError(conn, "bad_request", err)
			continue
		}

		if err := s.dispatch(ctx, conn, env.Type, data); err != nil {
			s.sendError(conn, errorCode(err), err)
		}
	}
}

func (s *Server) dispatch(ctx context.Context, conn *wsConn, msgType string, data []byte) error {
	switch msgType {
	case protocol.TypeSimulateEquity:
		var req protocol.SimulateEquityRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return s.handleSimulateEquity(ctx, conn, &req)

	case protocol.TypeHeroEquity:
		var req protocol.HeroEquityRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return s.handleHeroEquity(ctx, conn, &req)

	case protocol.TypeDescribe:
		var req protocol.DescribeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return s.handleDescribe(conn, &req)

	case protocol.TypeDecideCall:
		var req protocol.DecideCallRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return s.handleDecideCall(conn, &req)

	case protocol.TypeDecideRaise:
		var req protocol.DecideRaiseRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return s.handleDecideRaise(conn, &req)

	default:
		return fmt.Errorf("unknown message type %q", msgType)
	}
}

// newSimulator builds a simulator honoring the config and streaming
// progress to the client.
func (s *Server) newSimulator(conn *wsConn) *equity.Simulator {
	opts := []equity.Option{
		equity.WithLogger(s.logger),
		equity.WithProgress(func(completed, total int) {
			_ = conn.send(&protocol.Progress{
				Type:      protocol.TypeProgress,
				Completed: completed,
				Total:     total,
			})
		}),
	}
	if s.cfg.Simulation.Workers > 0 {
		opts = append(opts, equity.WithWorkers(s.cfg.Simulation.Workers))
	}
	if s.cfg.Simulation.Seed != 0 {
		opts = append(opts, equity.WithSeed(s.cfg.Simulation.Seed))
	}
	if s.cfg.Simulation.TimeBudgetMS > 0 {
		opts = append(opts, equity.WithTimeBudget(time.Duration(s.cfg.Simulation.TimeBudgetMS)*time.Millisecond))
	}
	return equity.New(opts...)
}

func (s *Server) handleSimulateEquity(ctx context.Context, conn *wsConn, req *protocol.SimulateEquityRequest) error {
	holeHands := make([][]deck.Card, 0, len(req.HoleHands))
	for _, h := range req.HoleHands {
		hole, err := deck.ParseCards(h)
		if err != nil {
			return err
		}
		holeHands = append(holeHands, hole)
	}
	board, err := deck.ParseCards(req.Board)
	if err != nil {
		return err
	}

	samples := req.Samples
	if samples <= 0 {
		samples = s.cfg.Simulation.Samples
	}

	sim := s.newSimulator(conn)
	result, err := sim.SimulateEquity(ctx, holeHands, board, samples)
	if err != nil {
		return err
	}

	return conn.send(&protocol.EquityResult{
		Type:     protocol.TypeEquityResult,
		WinProbs: result.WinProbs,
		TieProbs: result.TieProbs,
		Trials:   result.Trials,
	})
}

func (s *Server) handleHeroEquity(ctx context.Context, conn *wsConn, req *protocol.HeroEquityRequest) error {
	heroHole, err := deck.ParseCards(req.HeroHole)
	if err != nil {
		return err
	}
	board, err := deck.ParseCards(req.Board)
	if err != nil {
		return err
	}

	samples := req.Samples
	if samples <= 0 {
		samples = s.cfg.Simulation.Samples
	}

	sim := s.newSimulator(conn)
	result, err := sim.SimulateHeroVsRandomOpponents(ctx, heroHole, board, req.Opponents, samples)
	if err != nil {
		return err
	}

	return conn.send(&protocol.HeroResult{
		Type:     protocol.TypeHeroResult,
		WinProb:  result.WinProb,
		TieProb:  result.TieProb,
		LoseProb: result.LoseProb(),
		Trials:   result.Trials,
	})
}

func (s *Server) handleDescribe(conn *wsConn, req *protocol.DescribeRequest) error {
	cards, err := deck.ParseCards(req.Cards)
	if err != nil {
		return err
	}
	hv, err := evaluator.EvaluateBest(cards)
	if err != nil {
		return err
	}
	return conn.send(&protocol.Description{
		Type:        protocol.TypeDescription,
		Description: evaluator.Describe(hv),
		Category:    hv.Category.String(),
	})
}

func (s *Server) handleDecideCall(conn *wsConn, req *protocol.DecideCallRequest) error {
	d := strategy.CallDecision{
		Pot:        req.Pot,
		ToCall:     req.ToCall,
		WinProb:    req.WinProb,
		TieProb:    req.TieProb,
		RiskFactor: req.RiskFactor,
	}
	if d.RiskFactor == 0 {
		d.RiskFactor = s.cfg.Decision.RiskFactor
	}
	advice := strategy.RecommendCall(d)
	return conn.send(&protocol.DecisionResult{
		Type:           protocol.TypeDecisionResult,
		EVChips:        strategy.EVCallChips(d),
		EUUtility:      advice.EU,
		Recommendation: advice.Describe("CALL", "FOLD"),
	})
}

func (s *Server) handleDecideRaise(conn *wsConn, req *protocol.DecideRaiseRequest) error {
	d := strategy.RaiseDecision{
		Pot:                       req.Pot,
		ToCall:                    req.ToCall,
		BetSize:                   req.BetSize,
		FoldProb:                  req.FoldProb,
		WinProbCall:               req.WinProbCall,
		TieProbCall:               req.TieProbCall,
		RiskFactor:                req.RiskFactor,
		ExpectedCallersWhenCalled: req.ExpectedCallers,
	}
	if d.RiskFactor == 0 {
		d.RiskFactor = s.cfg.Decision.RiskFactor
	}
	advice := strategy.RecommendRaise(d)
	return conn.send(&protocol.DecisionResult{
		Type:           protocol.TypeDecisionResult,
		EVChips:        strategy.EVRaiseChips(d),
		EUUtility:      advice.EU,
		Recommendation: advice.Describe("RAISE/BET", "NO RAISE"),
	})
}

func (s *Server) sendError(conn *wsConn, code string, err error) {
	s.logger.Warn("request failed", "code", code, "err", err)
	_ = conn.send(&protocol.Error{
		Type:    protocol.TypeError,
		Code:    code,
		Message: err.Error(),
	})
}

// errorCode maps contract violations to stable wire codes
func errorCode(err error) string {
	var dup *showdown.DuplicateCardError
	var tooFew *showdown.TooFewHoleCardsError

	switch {
	case errors.As(err, &dup):
		return "duplicate_card"
	case errors.As(err, &tooFew):
		return "too_few_hole_cards"
	case errors.Is(err, showdown.ErrNoPlayers):
		return "no_players"
	case errors.Is(err, equity.ErrBoardSize):
		return "board_size"
	case errors.Is(err, equity.ErrInvalidSampleCount):
		return "invalid_sample_count"
	case errors.Is(err, equity.ErrNoOpponents):
		return "no_opponents"
	case errors.Is(err, deck.ErrInvalidCardFormat):
		return "invalid_card_format"
	case errors.Is(err, evaluator.ErrTooFewCards):
		return "too_few_cards"
	default:
		return "bad_request"
	}
}
