package api

import (
	"encoding/json"
	"net/http"

	"trading-journal/internal/models"
)

// createTradeRequest is the POST /trades body. Storage-assigned fields are
// not accepted from the client.
type createTradeRequest struct {
	Ticker    string      `json:"ticker"`
	Entry     float64     `json:"entry"`
	Exit      float64     `json:"exit"`
	Direction string      `json:"direction"`
	Setup     string      `json:"setup"`
	Notes     string      `json:"notes"`
	Tags      []string    `json:"tags"`
	Date      models.Date `json:"date"`
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "Invalid request body: "+err.Error())
		return
	}

	trade := &models.Trade{
		Ticker:    req.Ticker,
		Entry:     req.Entry,
		Exit:      req.Exit,
		Direction: req.Direction,
		Setup:     req.Setup,
		Notes:     req.Notes,
		Tags:      req.Tags,
		Date:      req.Date,
	}

	created, err := s.service.CreateTrade(r.Context(), trade)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.service.ListTrades(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := s.service.GetTrade(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	var patch models.TradePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.badRequest(w, "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.service.UpdateTrade(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTrade(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
