package repository

import (
	"context"

	"stock-backtest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstrumentRepository interface {
	UpsertBatch(ctx context.Context, instruments []model.Instrument) error
	List(ctx context.Context) ([]model.Instrument, error)
	Codes(ctx context.Context) ([]string, error)
}

type instrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) InstrumentRepository {
	return &instrumentRepository{db: db}
}

func (r *instrumentRepository) UpsertBatch(ctx context.Context, instruments []model.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "market_cap", "updated_at"}),
		}).
		CreateInBatches(instruments, 500).Error
}

func (r *instrumentRepository) List(ctx context.Context) ([]model.Instrument, error) {
	var instruments []model.Instrument
	err := r.db.WithContext(ctx).Order("market_cap desc").Find(&instruments).Error
	return instruments, err
}

func (r *instrumentRepository) Codes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&model.Instrument{}).
		Order("code asc").
		Pluck("code", &codes).Error
	return codes, err
}
