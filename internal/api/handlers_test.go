package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"trading-journal/internal/journal"
	"trading-journal/internal/models"
	"trading-journal/internal/settings"
	"trading-journal/internal/store"
)

// scriptedCoach returns a canned completion, or fails when err is set.
type scriptedCoach struct {
	response string
	err      error
}

func (c *scriptedCoach) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestServer(t *testing.T, coach *scriptedCoach) *Server {
	t.Helper()

	dir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := journal.NewService(st, coach, zerolog.Nop())
	themes := settings.NewThemeStore(filepath.Join(dir, "settings.json"))
	return NewServer(svc, themes, zerolog.Nop(), []string{"http://localhost:5173"})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func sampleTradeBody() map[string]interface{} {
	return map[string]interface{}{
		"ticker":    "AAPL",
		"entry":     100.0,
		"exit":      110.0,
		"direction": "long",
		"setup":     "breakout",
		"tags":      []string{"momentum"},
		"date":      "2024-06-03",
	}
}

func createTrade(t *testing.T, handler http.Handler) models.Trade {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/trades", sampleTradeBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /trades = %d: %s", rec.Code, rec.Body.String())
	}
	var trade models.Trade
	decodeBody(t, rec, &trade)
	return trade
}

func TestCreateTradeReturns201WithFeedback(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "nice entry"})
	handler := srv.Handler()

	trade := createTrade(t, handler)
	if trade.ID == "" {
		t.Error("response missing id")
	}
	if trade.AIFeedback != "nice entry" {
		t.Errorf("ai_feedback = %q", trade.AIFeedback)
	}
}

func TestCreateTradeSucceedsWhenCoachIsDown(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{err: errors.New("provider down")})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/trades", sampleTradeBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite coach failure: %s", rec.Code, rec.Body.String())
	}
	var trade models.Trade
	decodeBody(t, rec, &trade)
	if trade.AIFeedback != "" {
		t.Errorf("ai_feedback = %q, want empty", trade.AIFeedback)
	}
}

func TestCreateTradeValidationIs400(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	body := sampleTradeBody()
	body["direction"] = "sideways"
	rec := doJSON(t, handler, http.MethodPost, "/trades", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUnknownTradeIs404(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/trades/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var resp struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rec, &resp)
	if resp.Detail != "Trade not found" {
		t.Errorf("detail = %q", resp.Detail)
	}
}

func TestListTradesNewestFirst(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	first := sampleTradeBody()
	first["date"] = "2024-01-10"
	second := sampleTradeBody()
	second["date"] = "2024-05-20"

	for _, body := range []map[string]interface{}{first, second} {
		if rec := doJSON(t, handler, http.MethodPost, "/trades", body); rec.Code != http.StatusCreated {
			t.Fatalf("POST = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, handler, http.MethodGet, "/trades", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /trades = %d", rec.Code)
	}
	var trades []models.Trade
	decodeBody(t, rec, &trades)
	if len(trades) != 2 {
		t.Fatalf("len = %d, want 2", len(trades))
	}
	if trades[0].Date.String() != "2024-05-20" {
		t.Errorf("trades[0].Date = %s, want newest first", trades[0].Date.String())
	}
}

func TestUpdateTrade(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()
	trade := createTrade(t, handler)

	rec := doJSON(t, handler, http.MethodPut, "/trades/"+trade.ID, map[string]interface{}{
		"exit": 90.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Trade
	decodeBody(t, rec, &updated)
	if updated.Exit != 90 {
		t.Errorf("exit = %v, want 90", updated.Exit)
	}
	if updated.Ticker != "AAPL" {
		t.Errorf("ticker = %q, unsupplied field must survive", updated.Ticker)
	}
}

func TestUpdateTradeEmptyBodyIs400(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()
	trade := createTrade(t, handler)

	rec := doJSON(t, handler, http.MethodPut, "/trades/"+trade.ID, map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty patch", rec.Code)
	}
}

func TestDeleteTwice(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()
	trade := createTrade(t, handler)

	rec := doJSON(t, handler, http.MethodDelete, "/trades/"+trade.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first DELETE = %d, want 204", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodDelete, "/trades/"+trade.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestAnalyzeRequiresTradeID(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/ai/analyze", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeReturnsAnalysis(t *testing.T) {
	coach := &scriptedCoach{response: "initial"}
	srv := newTestServer(t, coach)
	handler := srv.Handler()
	trade := createTrade(t, handler)

	coach.response = "watch your position sizing"
	rec := doJSON(t, handler, http.MethodPost, "/ai/analyze", map[string]interface{}{
		"trade_id": trade.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TradeID  string `json:"trade_id"`
		Analysis string `json:"analysis"`
	}
	decodeBody(t, rec, &resp)
	if resp.Analysis != "watch your position sizing" {
		t.Errorf("analysis = %q", resp.Analysis)
	}
}

func TestAnalyzeCoachFailureIs500(t *testing.T) {
	coach := &scriptedCoach{response: "initial"}
	srv := newTestServer(t, coach)
	handler := srv.Handler()
	trade := createTrade(t, handler)

	coach.err = errors.New("provider down")
	rec := doJSON(t, handler, http.MethodPost, "/ai/analyze", map[string]interface{}{
		"trade_id": trade.ID,
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when analysis itself was requested", rec.Code)
	}
}

func TestInsightsEmptyJournal(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "unused"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/ai/insights", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		TotalTrades int    `json:"total_trades"`
		Insights    string `json:"insights"`
	}
	decodeBody(t, rec, &resp)
	if resp.TotalTrades != 0 {
		t.Errorf("total_trades = %d, want 0", resp.TotalTrades)
	}
	if resp.Insights != journal.NoTradesInsights {
		t.Errorf("insights = %q", resp.Insights)
	}
}

func TestChatEmptyMessageIs400(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/chat", map[string]interface{}{
		"message": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatReturnsResponse(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "stick to your plan"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/chat", map[string]interface{}{
		"message": "how am I doing?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Response string `json:"response"`
	}
	decodeBody(t, rec, &resp)
	if resp.Response != "stick to your plan" {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestThemeDefaultsAndRoundTrip(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/settings/theme", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET theme = %d", rec.Code)
	}
	var resp struct {
		Theme string `json:"theme"`
	}
	decodeBody(t, rec, &resp)
	if resp.Theme != settings.ThemeDark {
		t.Errorf("default theme = %q, want dark", resp.Theme)
	}

	rec = doJSON(t, handler, http.MethodPost, "/settings/theme", map[string]interface{}{
		"theme": "LIGHT",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST theme = %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &resp)
	if resp.Theme != settings.ThemeLight {
		t.Errorf("theme = %q, want normalized light", resp.Theme)
	}

	rec = doJSON(t, handler, http.MethodGet, "/settings/theme", nil)
	decodeBody(t, rec, &resp)
	if resp.Theme != settings.ThemeLight {
		t.Errorf("persisted theme = %q, want light", resp.Theme)
	}
}

func TestThemeRejectsUnknownValue(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/settings/theme", map[string]interface{}{
		"theme": "solarized",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("status body = %v", resp)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	srv := newTestServer(t, &scriptedCoach{response: "x"})
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/trades", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow-origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin for unknown origin = %q, want unset", got)
	}
}
