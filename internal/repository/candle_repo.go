package repository

import (
	"context"
	"time"

	"stock-backtest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandleRepository interface {
	GetSeries(ctx context.Context, codes []string, start, end time.Time) (map[string][]model.Candle, error)
	LastDate(ctx context.Context, code string) (*time.Time, error)
	SaveBatch(ctx context.Context, candles []model.Candle) error
	DistinctCodes(ctx context.Context) ([]string, error)
}

type candleRepository struct {
	db *gorm.DB
}

func NewCandleRepository(db *gorm.DB) CandleRepository {
	return &candleRepository{db: db}
}

// GetSeries mengembalikan candle per kode, terurut menaik berdasarkan tanggal.
// Start/end bernilai zero berarti tanpa batas di sisi tersebut.
func (r *candleRepository) GetSeries(ctx context.Context, codes []string, start, end time.Time) (map[string][]model.Candle, error) {
	query := r.db.WithContext(ctx).Where("code IN ?", codes)
	if !start.IsZero() {
		query = query.Where("date >= ?", start)
	}
	if !end.IsZero() {
		query = query.Where("date <= ?", end)
	}

	var candles []model.Candle
	if err := query.Order("code asc, date asc").Find(&candles).Error; err != nil {
		return nil, err
	}

	series := make(map[string][]model.Candle, len(codes))
	for _, c := range candles {
		series[c.Code] = append(series[c.Code], c)
	}
	return series, nil
}

// LastDate mengembalikan tanggal candle terakhir yang tersimpan untuk kode
// tersebut, atau nil bila belum ada data sama sekali.
func (r *candleRepository) LastDate(ctx context.Context, code string) (*time.Time, error) {
	var candle model.Candle
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("date desc").
		First(&candle).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candle.Date, nil
}

// SaveBatch melakukan upsert per (code, date) sehingga fetch inkremental yang
// tumpang tindih satu hari tidak menggandakan baris.
func (r *candleRepository) SaveBatch(ctx context.Context, candles []model.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "amount", "turnover", "updated_at"}),
		}).
		CreateInBatches(candles, 500).Error
}

func (r *candleRepository) DistinctCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&model.Candle{}).
		Distinct("code").
		Order("code asc").
		Pluck("code", &codes).Error
	return codes, err
}
