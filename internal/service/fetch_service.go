package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/internal/model"
	"stock-backtest/internal/repository"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// FetchService mengunduh K-line harian untuk banyak instrumen sekaligus dan
// mempersistenkannya secara inkremental.
type FetchService interface {
	FetchAll(ctx context.Context, codes []string, start, end time.Time) (*dto.FetchStats, error)
	FetchOne(ctx context.Context, code string, start, end time.Time) (int, error)
	DefaultStart() string
}

type fetchService struct {
	cfg        *config.Config
	log        *logger.Logger
	klineRepo  repository.KlineRepository
	candleRepo repository.CandleRepository
}

func NewFetchService(
	cfg *config.Config,
	log *logger.Logger,
	klineRepo repository.KlineRepository,
	candleRepo repository.CandleRepository,
) FetchService {
	return &fetchService{
		cfg:        cfg,
		log:        log,
		klineRepo:  klineRepo,
		candleRepo: candleRepo,
	}
}

// DefaultStart mengembalikan tanggal awal default untuk pengambilan penuh.
func (s *fetchService) DefaultStart() string {
	return s.cfg.Fetch.DefaultStart
}

// FetchAll menjalankan pengambilan paralel dengan jumlah worker terbatas.
// Kegagalan satu instrumen dicatat dan tidak menghentikan batch.
func (s *fetchService) FetchAll(ctx context.Context, codes []string, start, end time.Time) (*dto.FetchStats, error) {
	s.log.InfoContext(ctx, "Starting kline fetch batch",
		logger.IntField("instruments", len(codes)),
		logger.IntField("workers", s.cfg.Fetch.Workers),
		logger.TimeField("start", start),
		logger.TimeField("end", end),
	)

	stats := &dto.FetchStats{Total: len(codes)}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Fetch.Workers)

	for _, code := range codes {
		code := code
		g.Go(func() error {
			saved, err := s.FetchOne(gCtx, code, start, end)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				stats.Failed++
				stats.FailedCodes = append(stats.FailedCodes, code)
				s.log.WarnContext(gCtx, "Fetch failed for instrument",
					logger.StringField("code", code),
					logger.ErrorField(err),
				)
			case saved == 0:
				stats.Skipped++
			default:
				stats.Succeeded++
			}
			// Kegagalan per instrumen tidak membatalkan errgroup.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	sort.Strings(stats.FailedCodes)
	s.log.InfoContext(ctx, "Kline fetch batch finished",
		logger.IntField("succeeded", stats.Succeeded),
		logger.IntField("skipped", stats.Skipped),
		logger.IntField("failed", stats.Failed),
	)
	return stats, nil
}

// FetchOne mengunduh satu instrumen secara inkremental: bila sudah ada data
// lokal, pengambilan dilanjutkan dari tanggal terakhir yang tersimpan.
// Mengembalikan jumlah baris yang disimpan; 0 berarti sudah mutakhir.
func (s *fetchService) FetchOne(ctx context.Context, code string, start, end time.Time) (int, error) {
	lastDate, err := s.candleRepo.LastDate(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("failed to read last stored date for %s: %w", code, err)
	}
	if lastDate != nil {
		if lastDate.After(end) {
			return 0, nil
		}
		// Mulai dari tanggal terakhir; overlap satu hari aman karena upsert.
		start = *lastDate
	}

	param := dto.GetKlineParam{Code: code, Start: start, End: end, Adjust: s.cfg.Fetch.Adjust}

	var bars []dto.KlineBar
	for attempt := 1; attempt <= s.cfg.Fetch.MaxRetries; attempt++ {
		bars, err = s.klineRepo.GetDailyKline(ctx, param)
		if err == nil {
			break
		}
		if attempt == s.cfg.Fetch.MaxRetries {
			return 0, fmt.Errorf("fetch %s failed after %d attempts: %w", code, attempt, err)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	bars, err = validateBars(bars)
	if err != nil {
		return 0, fmt.Errorf("invalid kline data for %s: %w", code, err)
	}
	if len(bars) == 0 {
		return 0, nil
	}

	candles := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, model.Candle{
			Code:     code,
			Date:     utils.Day(b.Date),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
			Amount:   b.Amount,
			Turnover: b.Turnover,
		})
	}
	if err := s.candleRepo.SaveBatch(ctx, candles); err != nil {
		return 0, fmt.Errorf("failed to persist candles for %s: %w", code, err)
	}
	return len(candles), nil
}

// validateBars menghapus tanggal duplikat (kemunculan pertama menang),
// mengurutkan menaik, dan menolak tanggal di masa depan.
func validateBars(bars []dto.KlineBar) ([]dto.KlineBar, error) {
	seen := make(map[time.Time]struct{}, len(bars))
	cleaned := make([]dto.KlineBar, 0, len(bars))
	today := utils.Day(time.Now())

	for _, b := range bars {
		d := utils.Day(b.Date)
		if _, ok := seen[d]; ok {
			continue
		}
		if d.After(today) {
			return nil, fmt.Errorf("bar dated %s is in the future", utils.FormatISO(d))
		}
		seen[d] = struct{}{}
		cleaned = append(cleaned, b)
	}

	sort.Slice(cleaned, func(i, j int) bool { return cleaned[i].Date.Before(cleaned[j].Date) })
	return cleaned, nil
}
