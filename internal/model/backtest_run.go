package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun adalah satu run simulasi yang dipersistenkan: parameter dan
// hasil lengkap sebagai jsonb, plus kolom ringkasan untuk query cepat.
type BacktestRun struct {
	ID              uint           `gorm:"primarykey"`
	Params          datatypes.JSON `gorm:"type:jsonb;not null"`
	TradeLog        datatypes.JSON `gorm:"type:jsonb"`
	EquityCurve     datatypes.JSON `gorm:"type:jsonb"`
	TotalTrades     int            `gorm:"not null"`
	WinningTrades   int            `gorm:"not null"`
	LosingTrades    int            `gorm:"not null"`
	WinRate         float64        `gorm:"not null"`
	ProfitFactor    float64
	TotalProfitLoss float64 `gorm:"not null"`
	MaxDrawdown     float64
	FinalCapital    float64   `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type GetBacktestRunParam struct {
	Limit  *int
	Offset *int
}
