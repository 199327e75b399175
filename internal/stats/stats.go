// Package stats reduces a trade history into aggregate performance numbers.
// All functions are pure: no I/O, no mutation of the input slice, safe to
// call concurrently.
package stats

import (
	"trading-journal/internal/models"
)

// PnL computes the signed profit or loss of a single trade.
// Long trades gain when exit rises above entry; short trades gain when exit
// falls below entry.
func PnL(t *models.Trade) float64 {
	if t.Direction == models.DirectionShort {
		return t.Entry - t.Exit
	}
	return t.Exit - t.Entry
}

// PnLPercent computes P&L as a percentage of the entry price. The entry
// price is the denominator for both directions.
func PnLPercent(t *models.Trade) float64 {
	if t.Entry == 0 {
		return 0
	}
	return PnL(t) / t.Entry * 100
}

// IsWinner reports whether the trade is classified as a winner.
// Zero P&L counts as a loss, not a push.
func IsWinner(t *models.Trade) bool {
	return PnL(t) > 0
}

// Aggregate reduces a trade history into a StatsBundle. Setup groups are
// keyed by the trade's setup label ("Unknown" when blank); best and worst
// setup are selected by cumulative P&L with ties broken by first occurrence
// in the supplied order. An empty history yields a zero bundle with the
// "N/A" best/worst sentinel.
func Aggregate(trades []models.Trade) models.StatsBundle {
	bundle := models.StatsBundle{
		TotalTrades: len(trades),
		Setups:      make(map[string]models.SetupStats),
		BestSetup:   models.NoSetupData,
		WorstSetup:  models.NoSetupData,
	}
	if len(trades) == 0 {
		return bundle
	}

	var winSum, lossSum float64
	for i := range trades {
		t := &trades[i]
		pnl := PnL(t)
		bundle.TotalPnL += pnl

		if pnl > 0 {
			bundle.Winners++
			winSum += pnl
		} else {
			bundle.Losers++
			lossSum += pnl
		}

		label := t.SetupLabel()
		group, seen := bundle.Setups[label]
		if !seen {
			bundle.SetupOrder = append(bundle.SetupOrder, label)
		}
		if pnl > 0 {
			group.Wins++
		} else {
			group.Losses++
		}
		group.PnL += pnl
		bundle.Setups[label] = group
	}

	bundle.WinRate = float64(bundle.Winners) / float64(bundle.TotalTrades) * 100
	if bundle.Winners > 0 {
		bundle.AvgWin = winSum / float64(bundle.Winners)
	}
	if bundle.Losers > 0 {
		bundle.AvgLoss = lossSum / float64(bundle.Losers)
	}

	// First occurrence wins ties in both directions.
	for i, label := range bundle.SetupOrder {
		pnl := bundle.Setups[label].PnL
		if i == 0 || pnl > bundle.BestPnL {
			bundle.BestSetup = label
			bundle.BestPnL = pnl
		}
		if i == 0 || pnl < bundle.WorstPnL {
			bundle.WorstSetup = label
			bundle.WorstPnL = pnl
		}
	}

	return bundle
}
