package repository

import (
	"context"

	"stock-backtest/internal/model"

	"gorm.io/gorm"
)

type BacktestRunRepository interface {
	Create(ctx context.Context, run *model.BacktestRun) error
	FindByID(ctx context.Context, id uint) (*model.BacktestRun, error)
	List(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *gorm.DB
}

func NewBacktestRunRepository(db *gorm.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Create(ctx context.Context, run *model.BacktestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *backtestRunRepository) FindByID(ctx context.Context, id uint) (*model.BacktestRun, error) {
	var run model.BacktestRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *backtestRunRepository) List(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if param.Limit != nil {
		query = query.Limit(*param.Limit)
	}
	if param.Offset != nil {
		query = query.Offset(*param.Offset)
	}

	var runs []model.BacktestRun
	err := query.Find(&runs).Error
	return runs, err
}
