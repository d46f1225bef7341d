package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-backtest/internal/dto"
	"stock-backtest/internal/service"

	"github.com/spf13/cobra"
)

var (
	backtestSignalsPath string
	backtestStart       string
	backtestEnd         string
	backtestCapital     float64
	backtestPosition    float64
	backtestHolding     int
	backtestTakeProfit  float64
	backtestStopLoss    float64
	backtestExportCSV   bool
	backtestNotify      bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a trade simulation over stored daily klines",
	Long:  "Replays buy signals from a CSV file (columns: date,code) against the local candle store and prints the performance summary.",
	Run:   runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSignalsPath, "signals", "", "path to signals CSV file (required)")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "limit candles to dates at or after this date")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "limit candles to dates at or before this date")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (default: config value)")
	backtestCmd.Flags().Float64Var(&backtestPosition, "position-size", 0, "fraction of capital per trade")
	backtestCmd.Flags().IntVar(&backtestHolding, "holding", 0, "max holding period in sessions")
	backtestCmd.Flags().Float64Var(&backtestTakeProfit, "take-profit", 0, "take profit threshold, e.g. 0.05")
	backtestCmd.Flags().Float64Var(&backtestStopLoss, "stop-loss", 0, "stop loss threshold, e.g. 0.03")
	backtestCmd.Flags().BoolVar(&backtestExportCSV, "export-csv", false, "write trade log and equity curve CSV files")
	backtestCmd.Flags().BoolVar(&backtestNotify, "notify", false, "email the run summary")
	backtestCmd.MarkFlagRequired("signals")
}

func runBacktest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(backtestSignalsPath)
	if err != nil {
		log.Fatalf("Failed to open signals file: %v", err)
	}
	signals, err := service.ParseSignalsCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to parse signals file: %v", err)
	}
	if len(signals) == 0 {
		log.Fatalf("Signals file contains no signals")
	}

	appDep, services := buildServices(ctx)
	defer appDep.Close()

	req := dto.BacktestRequest{
		Signals:        signals,
		StartDate:      backtestStart,
		EndDate:        backtestEnd,
		InitialCapital: backtestCapital,
		PositionSize:   backtestPosition,
		HoldingPeriod:  backtestHolding,
		ExportCSV:      backtestExportCSV,
		Notify:         backtestNotify,
	}
	if cmd.Flags().Changed("take-profit") {
		req.TakeProfitPct = &backtestTakeProfit
	}
	if cmd.Flags().Changed("stop-loss") {
		req.StopLossPct = &backtestStopLoss
	}

	result, err := services.BacktestService.RunBacktest(ctx, req)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	log.Printf("Backtest run %d finished with %d trades", result.RunID, result.Summary.TotalTrades)
	log.Print("\n" + service.FormatSummaryText(result.Summary))
}
