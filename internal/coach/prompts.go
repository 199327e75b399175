package coach

import (
	"fmt"
	"strings"

	"trading-journal/internal/models"
	"trading-journal/internal/stats"
)

// System prompts per completion variant.
const (
	AnalyzeSystemPrompt = "You are an expert trading coach with deep knowledge of technical analysis, risk management, and trading psychology. Provide detailed, actionable feedback."

	InsightsSystemPrompt = "You are an expert trading coach with deep knowledge of technical analysis, risk management, and trading psychology. Provide comprehensive, actionable insights."

	ChatSystemPrompt = "You are a helpful AI trading coach assistant. Answer questions about trading using the provided trading history as context. Be specific, educational, and actionable."
)

// recentTradesPreview bounds the trade list embedded in the insights prompt.
const recentTradesPreview = 10

// BuildTradePrompt renders a single-trade coaching prompt. It is
// deterministic and never fails on missing optional fields: absent notes
// render as "None provided", absent tags as "None".
func BuildTradePrompt(v models.CoachView) string {
	t := models.Trade{Entry: v.Entry, Exit: v.Exit, Direction: v.Direction}
	pnl := stats.PnL(&t)
	pnlPct := stats.PnLPercent(&t)

	setup := v.Setup
	if setup == "" {
		setup = "N/A"
	}
	notes := v.Notes
	if notes == "" {
		notes = "None provided"
	}
	tags := "None"
	if len(v.Tags) > 0 {
		tags = strings.Join(v.Tags, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are an expert trading coach analyzing a trade. Provide a detailed, constructive critique.\n\n")
	sb.WriteString("Trade Details:\n")
	sb.WriteString(fmt.Sprintf("- Ticker: %s\n", v.Ticker))
	sb.WriteString(fmt.Sprintf("- Direction: %s\n", strings.ToUpper(v.Direction)))
	sb.WriteString(fmt.Sprintf("- Entry Price: $%.2f\n", v.Entry))
	sb.WriteString(fmt.Sprintf("- Exit Price: $%.2f\n", v.Exit))
	sb.WriteString(fmt.Sprintf("- P&L: $%.2f (%+.2f%%)\n", pnl, pnlPct))
	sb.WriteString(fmt.Sprintf("- Setup: %s\n", setup))
	sb.WriteString(fmt.Sprintf("- Notes: %s\n", notes))
	sb.WriteString(fmt.Sprintf("- Tags: %s\n", tags))
	sb.WriteString(fmt.Sprintf("- Date: %s\n", v.Date))
	sb.WriteString("\nProvide a comprehensive analysis covering:\n")
	sb.WriteString("1. Trade Execution: Was the entry/exit timing good? Why or why not?\n")
	sb.WriteString("2. Setup Quality: Evaluate the setup - was it high probability? What were the strengths/weaknesses?\n")
	sb.WriteString("3. Risk Management: Was position sizing appropriate? Was the risk/reward ratio favorable?\n")
	sb.WriteString("4. Psychology: What psychological factors may have influenced this trade (fear, greed, FOMO, etc.)?\n")
	sb.WriteString("5. What Went Well: Identify positive aspects of this trade\n")
	sb.WriteString("6. What Could Be Improved: Specific, actionable improvements\n")
	sb.WriteString("7. Key Takeaways: 2-3 main lessons from this trade\n")
	sb.WriteString("\nBe specific, constructive, and educational. Format your response in clear paragraphs.")
	return sb.String()
}

// BuildInsightsPrompt renders the full-history insights prompt from a stats
// bundle plus the trade list it was derived from. Trades are expected in
// date-descending order; the first recentTradesPreview entries form the
// recent-trades section.
func BuildInsightsPrompt(bundle models.StatsBundle, trades []models.Trade) string {
	var sb strings.Builder
	sb.WriteString("You are an expert trading coach analyzing a trader's complete trading history. Provide comprehensive insights and a personalized improvement plan.\n\n")
	sb.WriteString("Trading Statistics:\n")
	sb.WriteString(fmt.Sprintf("- Total Trades: %d\n", bundle.TotalTrades))
	sb.WriteString(fmt.Sprintf("- Winners: %d (%.1f%% win rate)\n", bundle.Winners, bundle.WinRate))
	sb.WriteString(fmt.Sprintf("- Losers: %d\n", bundle.Losers))
	sb.WriteString(fmt.Sprintf("- Total P&L: $%.2f\n", bundle.TotalPnL))
	sb.WriteString(fmt.Sprintf("- Average Win: $%.2f\n", bundle.AvgWin))
	sb.WriteString(fmt.Sprintf("- Average Loss: $%.2f\n", bundle.AvgLoss))

	sb.WriteString("\nSetup Performance:\n")
	for _, label := range bundle.SetupOrder {
		group := bundle.Setups[label]
		sb.WriteString(fmt.Sprintf("- %s: %dW/%dL (%.1f%% win rate, $%.2f P&L)\n",
			label, group.Wins, group.Losses, group.WinRate(), group.PnL))
	}

	sb.WriteString(fmt.Sprintf("\nBest Performing Setup: %s ($%.2f P&L)\n", bundle.BestSetup, bundle.BestPnL))
	sb.WriteString(fmt.Sprintf("Worst Performing Setup: %s ($%.2f P&L)\n", bundle.WorstSetup, bundle.WorstPnL))

	sb.WriteString("\nRecent Trades Summary:\n")
	preview := trades
	if len(preview) > recentTradesPreview {
		preview = preview[:recentTradesPreview]
	}
	writeTradeList(&sb, preview)

	sb.WriteString("\nProvide a comprehensive analysis covering:\n")
	sb.WriteString("1. Overall Performance Assessment: Evaluate the trader's performance holistically\n")
	sb.WriteString("2. Strongest Setups: Which setups work best and why\n")
	sb.WriteString("3. Weakest Setups: Which setups are underperforming and what might be wrong\n")
	sb.WriteString("4. Win/Loss Analysis: Patterns in winning vs losing trades\n")
	sb.WriteString("5. Risk Management Mistakes: Common risk management errors observed\n")
	sb.WriteString("6. Behavioral Patterns: Psychological patterns that may be affecting performance (overtrading, revenge trading, etc.)\n")
	sb.WriteString("7. Personalized Improvement Plan: Specific, actionable steps to improve trading performance\n")
	sb.WriteString("\nBe detailed, specific, and provide actionable advice. Format your response in clear sections with headers.")
	return sb.String()
}

// BuildChatPrompt renders a free-form question over the full trade history.
func BuildChatPrompt(message string, trades []models.Trade) string {
	var sb strings.Builder
	sb.WriteString("You are an AI trading coach assistant. The user is asking you a question about their trading.\n\n")
	sb.WriteString(fmt.Sprintf("User Question: %s\n\n", message))
	sb.WriteString("Trading History:\n")
	if len(trades) == 0 {
		sb.WriteString("No trades recorded yet.\n")
	} else {
		writeTradeList(&sb, trades)
	}
	sb.WriteString("\nAnswer the user's question using the trading history as context. Be helpful, educational, and specific. If the question is about a specific trade, reference it. If it's about general trading advice, provide actionable insights.")
	return sb.String()
}

// writeTradeList renders trades as structured text, one block per trade.
// Only domain fields are included; storage metadata stays out of prompts.
func writeTradeList(sb *strings.Builder, trades []models.Trade) {
	for i := range trades {
		t := &trades[i]
		sb.WriteString(fmt.Sprintf("%d. %s %s on %s: entry $%.2f, exit $%.2f, P&L $%.2f, setup %q",
			i+1, strings.ToUpper(t.Direction), t.Ticker, t.Date.String(),
			t.Entry, t.Exit, stats.PnL(t), t.SetupLabel()))
		if len(t.Tags) > 0 {
			sb.WriteString(fmt.Sprintf(", tags: %s", strings.Join(t.Tags, ", ")))
		}
		if t.Notes != "" {
			sb.WriteString(fmt.Sprintf(", notes: %s", t.Notes))
		}
		sb.WriteString("\n")
	}
}
