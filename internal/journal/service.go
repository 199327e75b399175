// Package journal coordinates trade persistence with best-effort AI
// enrichment. The primary write always settles first; coaching feedback is a
// side-workflow whose failure never fails the request.
package journal

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"trading-journal/internal/coach"
	apperrors "trading-journal/internal/errors"
	"trading-journal/internal/models"
	"trading-journal/internal/stats"
	"trading-journal/internal/store"
)

// maxTickerLength bounds the ticker field.
const maxTickerLength = 10

// NoTradesInsights is returned by Insights when the journal is empty; no
// model call is made in that case.
const NoTradesInsights = "No trades found. Start adding trades to get personalized insights!"

// Service orchestrates the trade store and the AI coach.
type Service struct {
	store  store.TradeStore
	coach  coach.Client
	logger zerolog.Logger
}

// NewService creates a journal service.
func NewService(st store.TradeStore, cl coach.Client, logger zerolog.Logger) *Service {
	return &Service{
		store:  st,
		coach:  cl,
		logger: logger,
	}
}

// CreateTrade validates and persists a new trade, then attempts enrichment.
// A store failure is fatal to the call; an enrichment failure is logged and
// the created trade is returned without fresh feedback.
func (s *Service) CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	trade.Direction = strings.ToLower(trade.Direction)
	if err := validateTrade(trade); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, trade)
	if err != nil {
		return nil, apperrors.NewStoreError("insert", "", err)
	}

	s.enrich(ctx, created)
	return created, nil
}

// GetTrade returns a trade by id.
func (s *Service) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	trade, err := s.store.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTradeNotFound) {
			return nil, err
		}
		return nil, apperrors.NewStoreError("get", id, err)
	}
	return trade, nil
}

// ListTrades returns all trades, newest trade date first.
func (s *Service) ListTrades(ctx context.Context) ([]models.Trade, error) {
	trades, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "", err)
	}
	return trades, nil
}

// UpdateTrade merges a patch onto an existing trade and re-enriches the
// result. An empty patch is a validation error; an unknown id performs no
// write.
func (s *Service) UpdateTrade(ctx context.Context, id string, patch models.TradePatch) (*models.Trade, error) {
	if patch.IsEmpty() {
		return nil, apperrors.NewValidationError("body", nil, "no fields to update")
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTradeNotFound) {
			return nil, err
		}
		return nil, apperrors.NewStoreError("update", id, err)
	}

	s.enrich(ctx, updated)
	return updated, nil
}

// DeleteTrade removes a trade permanently. A repeat delete of the same id
// surfaces as not-found, not a failure of the store.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTradeNotFound) {
			return err
		}
		return apperrors.NewStoreError("delete", id, err)
	}
	return nil
}

// Analyze re-runs coaching analysis for one trade synchronously and persists
// the result. Unlike the write-path enrichment, a coach failure here is
// surfaced: the caller asked for the analysis itself.
func (s *Service) Analyze(ctx context.Context, id string) (string, error) {
	trade, err := s.GetTrade(ctx, id)
	if err != nil {
		return "", err
	}

	prompt := coach.BuildTradePrompt(models.NewCoachView(trade))
	analysis, err := s.coach.Complete(ctx, coach.AnalyzeSystemPrompt, prompt)
	if err != nil {
		return "", apperrors.NewCoachError("analyze", err)
	}

	if _, err := s.store.SetFeedback(ctx, id, analysis); err != nil {
		return "", apperrors.NewStoreError("set_feedback", id, err)
	}
	return analysis, nil
}

// Insights aggregates the full history and asks the coach for a review.
// Returns the trade count alongside the generated text. The stats bundle is
// recomputed on every call and never cached.
func (s *Service) Insights(ctx context.Context) (int, string, error) {
	trades, err := s.ListTrades(ctx)
	if err != nil {
		return 0, "", err
	}
	if len(trades) == 0 {
		return 0, NoTradesInsights, nil
	}

	bundle := stats.Aggregate(trades)
	prompt := coach.BuildInsightsPrompt(bundle, trades)
	insights, err := s.coach.Complete(ctx, coach.InsightsSystemPrompt, prompt)
	if err != nil {
		return 0, "", apperrors.NewCoachError("insights", err)
	}
	return len(trades), insights, nil
}

// Chat answers a free-form question with the trade history as context.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewValidationError("message", message, "must not be empty")
	}

	trades, err := s.ListTrades(ctx)
	if err != nil {
		return "", err
	}

	prompt := coach.BuildChatPrompt(message, trades)
	response, err := s.coach.Complete(ctx, coach.ChatSystemPrompt, prompt)
	if err != nil {
		return "", apperrors.NewCoachError("chat", err)
	}
	return response, nil
}

// enrich attempts the persisted -> enriched transition: build the sanitized
// coach view, request feedback, and write it back. Every failure is caught
// here; nothing from this path reaches the caller.
func (s *Service) enrich(ctx context.Context, trade *models.Trade) {
	prompt := coach.BuildTradePrompt(models.NewCoachView(trade))

	feedback, err := s.coach.Complete(ctx, coach.AnalyzeSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Str("trade_id", trade.ID).
			Msg("AI feedback generation failed, continuing without feedback")
		return
	}

	if _, err := s.store.SetFeedback(ctx, trade.ID, feedback); err != nil {
		s.logger.Warn().Err(err).Str("trade_id", trade.ID).
			Msg("Failed to persist AI feedback")
		return
	}

	trade.AIFeedback = feedback
}

func validateTrade(t *models.Trade) error {
	if strings.TrimSpace(t.Ticker) == "" {
		return apperrors.NewValidationError("ticker", t.Ticker, "must not be empty")
	}
	if len(t.Ticker) > maxTickerLength {
		return apperrors.NewValidationError("ticker", t.Ticker, "must be at most 10 characters")
	}
	if t.Entry <= 0 {
		return apperrors.NewValidationError("entry", t.Entry, "must be positive")
	}
	if t.Exit <= 0 {
		return apperrors.NewValidationError("exit", t.Exit, "must be positive")
	}
	if t.Direction != models.DirectionLong && t.Direction != models.DirectionShort {
		return apperrors.NewValidationError("direction", t.Direction, "must be long or short")
	}
	if t.Date.IsZero() {
		return apperrors.NewValidationError("date", nil, "must be a valid date")
	}
	return nil
}

func validatePatch(p *models.TradePatch) error {
	if p.Ticker != nil {
		if strings.TrimSpace(*p.Ticker) == "" {
			return apperrors.NewValidationError("ticker", *p.Ticker, "must not be empty")
		}
		if len(*p.Ticker) > maxTickerLength {
			return apperrors.NewValidationError("ticker", *p.Ticker, "must be at most 10 characters")
		}
	}
	if p.Entry != nil && *p.Entry <= 0 {
		return apperrors.NewValidationError("entry", *p.Entry, "must be positive")
	}
	if p.Exit != nil && *p.Exit <= 0 {
		return apperrors.NewValidationError("exit", *p.Exit, "must be positive")
	}
	if p.Direction != nil {
		d := strings.ToLower(*p.Direction)
		if d != models.DirectionLong && d != models.DirectionShort {
			return apperrors.NewValidationError("direction", *p.Direction, "must be long or short")
		}
	}
	return nil
}
