package repository

import (
	"fmt"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/pkg/logger"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Repository struct {
	CandleRepo      CandleRepository
	InstrumentRepo  InstrumentRepository
	BacktestRunRepo BacktestRunRepository
	KlineRepo       KlineRepository
	SnapshotRepo    SnapshotProvider
}

// newRequestLimiter membangun limiter per-provider dari kuota request per
// menit. Nilai nol atau negatif adalah kesalahan konfigurasi.
func newRequestLimiter(maxPerMinute int) (*rate.Limiter, error) {
	if maxPerMinute <= 0 {
		return nil, fmt.Errorf("max_request_per_minute must be positive, got %d", maxPerMinute)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1), nil
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	eastmoneyRepo, err := NewEastmoneyRepository(cfg, log)
	if err != nil {
		return nil, err
	}
	tushareRepo, err := NewTushareRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	providers := map[string]KlineProvider{
		dto.DatasourceEastmoney: eastmoneyRepo,
		dto.DatasourceTushare:   tushareRepo,
	}
	primary, ok := providers[cfg.Datasource.Primary]
	if !ok {
		return nil, fmt.Errorf("unknown primary datasource %q, supported: tushare, eastmoney", cfg.Datasource.Primary)
	}
	fallback := providers[cfg.Datasource.Fallback] // nil berarti tanpa failover

	return &Repository{
		CandleRepo:      NewCandleRepository(db),
		InstrumentRepo:  NewInstrumentRepository(db),
		BacktestRunRepo: NewBacktestRunRepository(db),
		KlineRepo:       NewKlineRepository(primary, fallback, log),
		SnapshotRepo:    eastmoneyRepo,
	}, nil
}
