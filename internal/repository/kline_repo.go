package repository

import (
	"context"

	"stock-backtest/internal/dto"
	"stock-backtest/pkg/logger"
)

type KlineRepository interface {
	GetDailyKline(ctx context.Context, param dto.GetKlineParam) ([]dto.KlineBar, error)
}

// klineRepository memilih provider utama dan otomatis beralih ke provider
// cadangan ketika provider utama gagal.
type klineRepository struct {
	primary  KlineProvider
	fallback KlineProvider
	logger   *logger.Logger
}

func NewKlineRepository(primary, fallback KlineProvider, log *logger.Logger) KlineRepository {
	return &klineRepository{
		primary:  primary,
		fallback: fallback,
		logger:   log,
	}
}

func (r *klineRepository) GetDailyKline(ctx context.Context, param dto.GetKlineParam) ([]dto.KlineBar, error) {
	bars, err := r.primary.GetDailyKline(ctx, param)
	if err == nil {
		return bars, nil
	}
	if r.fallback == nil {
		return nil, err
	}

	r.logger.WarnContext(ctx, "Primary datasource failed, switching to fallback",
		logger.StringField("code", param.Code),
		logger.StringField("primary", r.primary.Name()),
		logger.StringField("fallback", r.fallback.Name()),
		logger.ErrorField(err),
	)
	return r.fallback.GetDailyKline(ctx, param)
}
