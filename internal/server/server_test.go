package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/internal/protocol"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Simulation.Seed = 42
	srv := New(cfg, testLogger())

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

// readResponse reads frames until a non-progress message arrives
func readResponse(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		if env.Type == protocol.TypeProgress {
			continue
		}

		require.NoError(t, json.Unmarshal(data, v))
		return
	}
}

func TestServerDescribe(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.DescribeRequest{
		Type:  protocol.TypeDescribe,
		Cards: "AsAhAdTcTs",
	}))

	var resp protocol.Description
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeDescription, resp.Type)
	assert.Equal(t, "Full house, Aces over Tens", resp.Description)
	assert.Equal(t, "Full House", resp.Category)
}

func TestServerSimulateEquityCompleteBoard(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.SimulateEquityRequest{
		Type:      protocol.TypeSimulateEquity,
		HoleHands: []string{"AcAd", "KcKd"},
		Board:     "Qh2c7d9s4h",
		Samples:   1000,
	}))

	var resp protocol.EquityResult
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeEquityResult, resp.Type)
	assert.Equal(t, []float64{1, 0}, resp.WinProbs)
	assert.Equal(t, []float64{0, 0}, resp.TieProbs)
	assert.Equal(t, 1, resp.Trials)
}

func TestServerHeroEquity(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.HeroEquityRequest{
		Type:      protocol.TypeHeroEquity,
		HeroHole:  "AcAd",
		Opponents: 1,
		Samples:   500,
	}))

	var resp protocol.HeroResult
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeHeroResult, resp.Type)
	assert.Greater(t, resp.WinProb, 0.5)
	assert.Equal(t, 500, resp.Trials)
	assert.InDelta(t, 1.0, resp.WinProb+resp.TieProb+resp.LoseProb, 1e-9)
}

func TestServerDecideCall(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.DecideCallRequest{
		Type:    protocol.TypeDecideCall,
		Pot:     100,
		ToCall:  10,
		WinProb: 0.9,
	}))

	var resp protocol.DecisionResult
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeDecisionResult, resp.Type)
	assert.Greater(t, resp.EVChips, 0.0)
	assert.Contains(t, resp.Recommendation, "CALL")
}

func TestServerDecideRaise(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.DecideRaiseRequest{
		Type:        protocol.TypeDecideRaise,
		Pot:         100,
		BetSize:     50,
		FoldProb:    0.5,
		WinProbCall: 0.8,
	}))

	var resp protocol.DecisionResult
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeDecisionResult, resp.Type)
	assert.Contains(t, resp.Recommendation, "RAISE")
}

func TestServerDuplicateCardError(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.SimulateEquityRequest{
		Type:      protocol.TypeSimulateEquity,
		HoleHands: []string{"AsKd", "AsQh"},
		Samples:   100,
	}))

	var resp protocol.Error
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeError, resp.Type)
	assert.Equal(t, "duplicate_card", resp.Code)
	assert.Contains(t, resp.Message, "A♠")
}

func TestServerInvalidCardError(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(&protocol.DescribeRequest{
		Type:  protocol.TypeDescribe,
		Cards: "XXYYZZQQWW",
	}))

	var resp protocol.Error
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeError, resp.Type)
	assert.Equal(t, "invalid_card_format", resp.Code)
}

func TestServerUnknownMessageType(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "bogus"}))

	var resp protocol.Error
	readResponse(t, conn, &resp)

	assert.Equal(t, protocol.TypeError, resp.Type)
	assert.Equal(t, "bad_request", resp.Code)
}

func TestServerRecoversAfterError(t *testing.T) {
	conn := dialTestServer(t)

	// A failed request must not poison the connection
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "bogus"}))
	var errResp protocol.Error
	readResponse(t, conn, &errResp)
	require.Equal(t, protocol.TypeError, errResp.Type)

	require.NoError(t, conn.WriteJSON(&protocol.DescribeRequest{
		Type:  protocol.TypeDescribe,
		Cards: "AsKsQsJsTs",
	}))

	var resp protocol.Description
	readResponse(t, conn, &resp)
	assert.Equal(t, "Royal flush", resp.Description)
}
