package service

import (
	"context"
	"fmt"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/repository"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService menjalankan refresh data harian sesuai jadwal cron.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop() context.Context
	RunRefresh(ctx context.Context) error
}

type schedulerService struct {
	cfg            *config.Config
	log            *logger.Logger
	instrumentRepo repository.InstrumentRepository
	fetchService   FetchService
	cron           *cron.Cron
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	instrumentRepo repository.InstrumentRepository,
	fetchService FetchService,
) *schedulerService {
	return &schedulerService{
		cfg:            cfg,
		log:            log,
		instrumentRepo: instrumentRepo,
		fetchService:   fetchService,
		cron:           cron.New(),
	}
}

// Start mendaftarkan job refresh dan menjalankan cron di background.
func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scheduler.RefreshCron, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
		defer cancel()

		if err := s.RunRefresh(runCtx); err != nil {
			s.log.ErrorContext(runCtx, "Scheduled refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register refresh schedule: %w", err)
	}

	s.cron.Start()
	s.log.Info("Refresh scheduler started", logger.StringField("cron", s.cfg.Scheduler.RefreshCron))
	return nil
}

// Stop menghentikan cron dan mengembalikan context yang selesai saat semua
// job yang sedang berjalan sudah tuntas.
func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}

// RunRefresh mengambil kline terbaru untuk seluruh instrumen yang tersimpan
// di universe hasil screening.
func (s *schedulerService) RunRefresh(ctx context.Context) error {
	codes, err := s.instrumentRepo.Codes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list instrument codes: %w", err)
	}
	if len(codes) == 0 {
		s.log.WarnContext(ctx, "No instruments stored, skipping scheduled refresh")
		return nil
	}

	start, err := utils.ParseDate(s.cfg.Fetch.DefaultStart)
	if err != nil {
		return fmt.Errorf("invalid default start date: %w", err)
	}
	end := utils.Day(time.Now())

	stats, err := s.fetchService.FetchAll(ctx, codes, start, end)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Scheduled refresh completed",
		logger.IntField("total", stats.Total),
		logger.IntField("succeeded", stats.Succeeded),
		logger.IntField("skipped", stats.Skipped),
		logger.IntField("failed", stats.Failed),
	)
	return nil
}
