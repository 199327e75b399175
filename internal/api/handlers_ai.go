package api

import (
	"encoding/json"
	"net/http"
)

type analyzeRequest struct {
	TradeID string `json:"trade_id"`
}

type analyzeResponse struct {
	TradeID  string `json:"trade_id"`
	Analysis string `json:"analysis"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "Invalid request body: "+err.Error())
		return
	}
	if req.TradeID == "" {
		s.badRequest(w, "trade_id is required")
		return
	}

	analysis, err := s.service.Analyze(r.Context(), req.TradeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		TradeID:  req.TradeID,
		Analysis: analysis,
	})
}

type insightsResponse struct {
	TotalTrades int    `json:"total_trades"`
	Insights    string `json:"insights"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	total, insights, err := s.service.Insights(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, insightsResponse{
		TotalTrades: total,
		Insights:    insights,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	// UserID is accepted for future per-user scoping; the history is global
	// until auth exists.
	UserID string `json:"user_id"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "Invalid request body: "+err.Error())
		return
	}

	response, err := s.service.Chat(r.Context(), req.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chatResponse{Response: response})
}
