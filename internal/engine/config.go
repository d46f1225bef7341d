package engine

import (
	"fmt"

	goValidator "github.com/go-playground/validator/v10"
)

// Config berisi parameter simulasi. Kesalahan konfigurasi bersifat fatal:
// engine menolak berjalan daripada menghasilkan harga yang salah.
type Config struct {
	InitialCapital float64  `json:"initial_capital" validate:"required,gt=0"`
	PositionSize   float64  `json:"position_size" validate:"required,gt=0,lte=1"`
	HoldingPeriod  int      `json:"holding_period" validate:"required,min=1"`
	TakeProfitPct  *float64 `json:"take_profit_pct,omitempty" validate:"omitempty,gt=0"`
	StopLossPct    *float64 `json:"stop_loss_pct,omitempty" validate:"omitempty,gt=0"`
	CommissionRate float64  `json:"commission_rate" validate:"gte=0"`
	StampDutyRate  float64  `json:"stamp_duty_rate" validate:"gte=0"`
}

func (c Config) Validate() error {
	if err := goValidator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid backtest config: %w", err)
	}
	return nil
}
