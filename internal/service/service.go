package service

import (
	"stock-backtest/config"
	"stock-backtest/internal/repository"
	"stock-backtest/pkg/cache"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/mailer"
)

type Service struct {
	FetchService     FetchService
	ScreenerService  ScreenerService
	BacktestService  BacktestService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	m *mailer.Mailer,
) *Service {
	fetchService := NewFetchService(cfg, log, repo.KlineRepo, repo.CandleRepo)
	screenerService := NewScreenerService(cfg, log, repo.SnapshotRepo, repo.InstrumentRepo, inmemoryCache)
	backtestService := NewBacktestService(cfg, log, repo.CandleRepo, repo.BacktestRunRepo, m)
	schedulerService := NewSchedulerService(cfg, log, repo.InstrumentRepo, fetchService)

	return &Service{
		FetchService:     fetchService,
		ScreenerService:  screenerService,
		BacktestService:  backtestService,
		SchedulerService: schedulerService,
	}
}
