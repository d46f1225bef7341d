package service

import (
	"testing"
	"time"

	"stock-backtest/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func klineBar(day int, close float64) dto.KlineBar {
	return dto.KlineBar{
		Date:  time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Open:  close,
		High:  close,
		Low:   close,
		Close: close,
	}
}

func TestValidateBars_DedupesAndSorts(t *testing.T) {
	bars := []dto.KlineBar{
		klineBar(3, 10.3),
		klineBar(1, 10.1),
		klineBar(3, 99.9), // duplikat, kemunculan pertama menang
		klineBar(2, 10.2),
	}

	cleaned, err := validateBars(bars)
	require.NoError(t, err)
	require.Len(t, cleaned, 3)

	assert.Equal(t, klineBar(1, 10.1).Date, cleaned[0].Date)
	assert.Equal(t, klineBar(2, 10.2).Date, cleaned[1].Date)
	assert.Equal(t, klineBar(3, 10.3).Date, cleaned[2].Date)
	assert.Equal(t, 10.3, cleaned[2].Close)
}

func TestValidateBars_RejectsFutureDates(t *testing.T) {
	future := dto.KlineBar{Date: time.Now().AddDate(0, 0, 7)}

	_, err := validateBars([]dto.KlineBar{klineBar(1, 10.0), future})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestValidateBars_EmptyInput(t *testing.T) {
	cleaned, err := validateBars(nil)
	require.NoError(t, err)
	assert.Empty(t, cleaned)
}
