package dto

import (
	"time"

	"stock-backtest/internal/engine"
)

// SignalInput adalah satu sinyal beli mentah dari request atau file CSV.
type SignalInput struct {
	Date string `json:"date" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// BacktestRequest mendefinisikan parameter untuk menjalankan sebuah backtest.
// Parameter engine yang nol memakai default dari konfigurasi.
type BacktestRequest struct {
	Signals        []SignalInput `json:"signals" validate:"required,min=1,dive"`
	StartDate      string        `json:"start_date,omitempty"`
	EndDate        string        `json:"end_date,omitempty"`
	InitialCapital float64       `json:"initial_capital,omitempty" validate:"omitempty,gt=0"`
	PositionSize   float64       `json:"position_size,omitempty" validate:"omitempty,gt=0,lte=1"`
	HoldingPeriod  int           `json:"holding_period,omitempty" validate:"omitempty,min=1"`
	TakeProfitPct  *float64      `json:"take_profit_pct,omitempty" validate:"omitempty,gt=0"`
	StopLossPct    *float64      `json:"stop_loss_pct,omitempty" validate:"omitempty,gt=0"`
	CommissionRate *float64      `json:"commission_rate,omitempty" validate:"omitempty,gte=0"`
	StampDutyRate  *float64      `json:"stamp_duty_rate,omitempty" validate:"omitempty,gte=0"`
	ExportCSV      bool          `json:"export_csv,omitempty"`
	Notify         bool          `json:"notify,omitempty"`
}

// BacktestSummary merangkum metrik kinerja dari trade log.
type BacktestSummary struct {
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalProfitLoss float64 `json:"total_profit_loss"`
	TotalProfit     float64 `json:"total_profit"`
	TotalLoss       float64 `json:"total_loss"`
	ProfitFactor    float64 `json:"profit_factor"` // Total Profit / Total Loss
	MaxDrawdown     float64 `json:"max_drawdown"`
	AvgHoldingDays  float64 `json:"avg_holding_days"`
	FinalCapital    float64 `json:"final_capital"`
}

// BacktestResult adalah keluaran lengkap satu run: trade log dalam urutan
// pemrosesan sinyal, equity curve selaras kalender, dan ringkasannya.
type BacktestResult struct {
	RunID       uint                 `json:"run_id,omitempty"`
	Config      engine.Config        `json:"config"`
	Trades      []engine.TradeRecord `json:"trades"`
	EquityCurve []engine.EquityPoint `json:"equity_curve"`
	Summary     BacktestSummary      `json:"summary"`
	StartedAt   time.Time            `json:"started_at"`
}
