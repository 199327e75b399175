package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trading-journal/internal/config"
	"trading-journal/internal/stats"
	"trading-journal/internal/store"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print a journal performance summary",
		Long:  "Aggregate the stored trade history and print win rate, P&L and per-setup performance without calling the AI coach.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			dataStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
			if err != nil {
				return err
			}
			defer dataStore.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			trades, err := dataStore.List(ctx)
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				fmt.Println("No trades recorded yet.")
				return nil
			}

			bundle := stats.Aggregate(trades)

			fmt.Printf("Total Trades: %d\n", bundle.TotalTrades)
			fmt.Printf("Winners:      %d (%.1f%% win rate)\n", bundle.Winners, bundle.WinRate)
			fmt.Printf("Losers:       %d\n", bundle.Losers)
			fmt.Printf("Total P&L:    $%.2f\n", bundle.TotalPnL)
			fmt.Printf("Average Win:  $%.2f\n", bundle.AvgWin)
			fmt.Printf("Average Loss: $%.2f\n", bundle.AvgLoss)

			fmt.Println("\nSetup Performance:")
			for _, label := range bundle.SetupOrder {
				group := bundle.Setups[label]
				fmt.Printf("  %-20s %dW/%dL (%.1f%% win rate, $%.2f P&L)\n",
					label, group.Wins, group.Losses, group.WinRate(), group.PnL)
			}

			fmt.Printf("\nBest Setup:  %s ($%.2f P&L)\n", bundle.BestSetup, bundle.BestPnL)
			fmt.Printf("Worst Setup: %s ($%.2f P&L)\n", bundle.WorstSetup, bundle.WorstPnL)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("trading-journal %s\n", Version)
		},
	}
}
