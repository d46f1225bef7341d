package model

import "time"

// Instrument adalah satu anggota universe hasil screening kapitalisasi pasar.
type Instrument struct {
	ID        uint      `gorm:"primarykey"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	MarketCap float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Instrument) TableName() string {
	return "instruments"
}
