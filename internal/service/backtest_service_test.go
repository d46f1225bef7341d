package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeWithReturn(pct float64, holdingDays int) engine.TradeRecord {
	return engine.TradeRecord{ReturnPct: pct, HoldingDays: holdingDays}
}

func TestComputeSummary(t *testing.T) {
	result := &engine.Result{
		Trades: []engine.TradeRecord{
			tradeWithReturn(0.10, 2),
			tradeWithReturn(-0.05, 3),
			tradeWithReturn(0.02, 1),
		},
		EquityCurve: []engine.EquityPoint{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100000},
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: 110000},
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 104500},
			{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Value: 106590},
		},
		FinalCapital: 106590,
	}

	summary := ComputeSummary(result)

	assert.Equal(t, 3, summary.TotalTrades)
	assert.Equal(t, 2, summary.WinningTrades)
	assert.Equal(t, 1, summary.LosingTrades)
	assert.InDelta(t, 66.6667, summary.WinRate, 1e-3)
	assert.InDelta(t, 2.0, summary.AvgHoldingDays, 1e-9)
	assert.InDelta(t, 0.12, summary.TotalProfit, 1e-9)
	assert.InDelta(t, -0.05, summary.TotalLoss, 1e-9)
	assert.InDelta(t, 2.4, summary.ProfitFactor, 1e-9)
	assert.InDelta(t, 6590, summary.TotalProfitLoss, 1e-9)
	// drawdown terbesar: 110000 -> 104500
	assert.InDelta(t, 0.05, summary.MaxDrawdown, 1e-9)
	assert.Equal(t, 106590.0, summary.FinalCapital)
}

func TestComputeSummary_NoTrades(t *testing.T) {
	result := &engine.Result{
		EquityCurve: []engine.EquityPoint{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100000},
		},
		FinalCapital: 100000,
	}

	summary := ComputeSummary(result)

	assert.Zero(t, summary.TotalTrades)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ProfitFactor)
	assert.Zero(t, summary.TotalProfitLoss)
	assert.Zero(t, summary.MaxDrawdown)
}

func TestParseSignals(t *testing.T) {
	signals, err := ParseSignals([]dto.SignalInput{
		{Date: "2024-01-02", Code: "600000"},
		{Date: "20240103", Code: "000001"},
	})
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), signals[0].Date)
	assert.Equal(t, "000001", signals[1].Code)
}

func TestParseSignals_InvalidDateIsFatal(t *testing.T) {
	_, err := ParseSignals([]dto.SignalInput{{Date: "not-a-date", Code: "600000"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signal 0")
}

func TestParseSignals_EmptyCode(t *testing.T) {
	_, err := ParseSignals([]dto.SignalInput{{Date: "2024-01-02"}})
	require.Error(t, err)
}

func TestParseSignalsCSV(t *testing.T) {
	input := "date,code\n2024-01-02,600000\n20240103,000001\n"

	signals, err := ParseSignalsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, dto.SignalInput{Date: "2024-01-02", Code: "600000"}, signals[0])
	assert.Equal(t, dto.SignalInput{Date: "20240103", Code: "000001"}, signals[1])
}

func TestParseSignalsCSV_NoHeader(t *testing.T) {
	signals, err := ParseSignalsCSV(strings.NewReader("2024-01-02,600000\n"))
	require.NoError(t, err)
	require.Len(t, signals, 1)
}

func TestParseSignalsCSV_TooFewColumns(t *testing.T) {
	_, err := ParseSignalsCSV(strings.NewReader("date;code\n"))
	require.Error(t, err)
}

func TestResolveEngineConfig_RequestOverridesDefaults(t *testing.T) {
	svc := &backtestService{cfg: &config.Config{
		Backtest: config.Backtest{
			InitialCapital: 100000,
			PositionSize:   1,
			HoldingPeriod:  10,
			CommissionRate: 0.0003,
			StampDutyRate:  0.001,
		},
	}}

	tp := 0.05
	zeroComm := 0.0
	cfg := svc.resolveEngineConfig(dto.BacktestRequest{
		HoldingPeriod:  5,
		TakeProfitPct:  &tp,
		CommissionRate: &zeroComm,
	})

	assert.Equal(t, 100000.0, cfg.InitialCapital)
	assert.Equal(t, 5, cfg.HoldingPeriod)
	require.NotNil(t, cfg.TakeProfitPct)
	assert.Equal(t, 0.05, *cfg.TakeProfitPct)
	assert.Nil(t, cfg.StopLossPct)
	// rate eksplisit nol menimpa default, bukan diabaikan
	assert.Equal(t, 0.0, cfg.CommissionRate)
	assert.Equal(t, 0.001, cfg.StampDutyRate)
}

func TestCSVExporter_WritesTradeAndEquityFiles(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)

	result := &engine.Result{
		Trades: []engine.TradeRecord{
			{
				Code:        "600000",
				EntryDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				EntryPrice:  10,
				ExitDate:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				ExitPrice:   10.5,
				ExitReason:  engine.ExitTakeProfit,
				ReturnPct:   0.048335,
				TotalCost:   166.5,
				HoldingDays: 1,
			},
		},
		EquityCurve: []engine.EquityPoint{
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: 100000},
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 104833.5},
		},
	}

	startedAt := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	require.NoError(t, exporter.Export(result, startedAt))

	trades, err := os.ReadFile(filepath.Join(dir, "trades_20240103_153000.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(trades)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "code,entry_date,entry_price,exit_date,exit_price,exit_reason,return_pct,total_cost,holding_days", lines[0])
	assert.Contains(t, lines[1], "600000,2024-01-02,10,2024-01-03,10.5,take_profit")

	equity, err := os.ReadFile(filepath.Join(dir, "equity_20240103_153000.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(equity), "2024-01-03,104833.50")
}
