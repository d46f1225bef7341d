package service

import (
	"context"
	"fmt"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/internal/model"
	"stock-backtest/internal/repository"
	"stock-backtest/pkg/cache"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/utils"
)

const snapshotCacheKey = "screener:market_snapshot"

// ScreenerService menyaring universe berdasarkan kapitalisasi pasar dan
// mempersistenkan instrumen yang lolos.
type ScreenerService interface {
	SelectUniverse(ctx context.Context) ([]model.Instrument, error)
	ListUniverse(ctx context.Context) ([]model.Instrument, error)
}

type screenerService struct {
	cfg            *config.Config
	log            *logger.Logger
	snapshotRepo   repository.SnapshotProvider
	instrumentRepo repository.InstrumentRepository
	cache          cache.Cache
}

func NewScreenerService(
	cfg *config.Config,
	log *logger.Logger,
	snapshotRepo repository.SnapshotProvider,
	instrumentRepo repository.InstrumentRepository,
	inmemoryCache cache.Cache,
) ScreenerService {
	return &screenerService{
		cfg:            cfg,
		log:            log,
		snapshotRepo:   snapshotRepo,
		instrumentRepo: instrumentRepo,
		cache:          inmemoryCache,
	}
}

func (s *screenerService) SelectUniverse(ctx context.Context) ([]model.Instrument, error) {
	snapshot, err := s.getSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	selected := FilterUniverse(snapshot, s.cfg.Screener)
	if len(selected) == 0 {
		return nil, fmt.Errorf("screener selected no instruments, adjust market cap bounds")
	}

	instruments := make([]model.Instrument, 0, len(selected))
	for _, entry := range selected {
		instruments = append(instruments, model.Instrument{
			Code:      entry.Code,
			Name:      entry.Name,
			MarketCap: entry.MarketCap,
		})
	}
	if err := s.instrumentRepo.UpsertBatch(ctx, instruments); err != nil {
		return nil, fmt.Errorf("failed to persist universe: %w", err)
	}

	s.log.InfoContext(ctx, "Universe selected",
		logger.IntField("snapshot_size", len(snapshot)),
		logger.IntField("selected", len(instruments)),
	)
	return instruments, nil
}

// ListUniverse mengembalikan universe hasil screening terakhir yang tersimpan.
func (s *screenerService) ListUniverse(ctx context.Context) ([]model.Instrument, error) {
	return s.instrumentRepo.List(ctx)
}

func (s *screenerService) getSnapshot(ctx context.Context) ([]dto.SnapshotEntry, error) {
	if cached, ok := cache.GetTyped[[]dto.SnapshotEntry](s.cache, snapshotCacheKey); ok {
		return cached, nil
	}

	snapshot, err := s.snapshotRepo.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get market snapshot: %w", err)
	}
	s.cache.Set(snapshotCacheKey, snapshot, s.cfg.Screener.SnapshotTTL)
	return snapshot, nil
}

// FilterUniverse menerapkan batas kapitalisasi dan pengecualian prefiks kode.
// MaxMarketCap nol berarti tanpa batas atas.
func FilterUniverse(snapshot []dto.SnapshotEntry, cfg config.Screener) []dto.SnapshotEntry {
	var selected []dto.SnapshotEntry
	for _, entry := range snapshot {
		if entry.MarketCap < cfg.MinMarketCap {
			continue
		}
		if cfg.MaxMarketCap > 0 && entry.MarketCap > cfg.MaxMarketCap {
			continue
		}
		if utils.HasAnyPrefix(entry.Code, dto.AlwaysExcludedPrefixes...) {
			continue
		}
		if cfg.ExcludeGEM && utils.HasAnyPrefix(entry.Code, dto.GEMPrefixes...) {
			continue
		}
		selected = append(selected, entry)
	}
	return selected
}
