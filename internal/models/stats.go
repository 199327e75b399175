package models

// NoSetupData is the best/worst setup sentinel when no trades exist.
const NoSetupData = "N/A"

// SetupStats accumulates win/loss counts and P&L for one setup label.
type SetupStats struct {
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	PnL    float64 `json:"pnl"`
}

// Total returns the number of trades in the setup group.
func (s SetupStats) Total() int {
	return s.Wins + s.Losses
}

// WinRate returns the group win rate in percent, 0 for an empty group.
func (s SetupStats) WinRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total) * 100
}

// StatsBundle is the derived aggregate over a trade history. It is computed
// fresh on every insights request and never persisted.
type StatsBundle struct {
	TotalTrades int
	Winners     int
	Losers      int
	WinRate     float64
	TotalPnL    float64
	AvgWin float64
	// AvgLoss is the signed mean over the loser set, so it is negative or
	// zero, never a positive magnitude.
	AvgLoss float64
	// Setups maps setup label to its rollup. SetupOrder preserves first
	// occurrence in the input sequence, which is also the tie-break order
	// for best/worst selection.
	Setups     map[string]SetupStats
	SetupOrder []string
	BestSetup  string
	WorstSetup string
	BestPnL    float64
	WorstPnL   float64
}
