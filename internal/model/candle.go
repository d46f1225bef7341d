package model

import "time"

// Candle adalah satu baris OHLCV harian yang dipersistenkan per instrumen.
type Candle struct {
	ID        uint      `gorm:"primarykey"`
	Code      string    `gorm:"not null;uniqueIndex:idx_candles_code_date"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_candles_code_date"`
	Open      float64   `gorm:"not null"`
	High      float64   `gorm:"not null"`
	Low       float64   `gorm:"not null"`
	Close     float64   `gorm:"not null"`
	Volume    float64
	Amount    float64
	Turnover  float64
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Candle) TableName() string {
	return "candles"
}
