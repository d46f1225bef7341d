package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEquityCurve_EmptyTradeLog(t *testing.T) {
	cal := NewCalendar([]time.Time{date(1), date(2), date(3)})

	curve := BuildEquityCurve(cal, nil, 100000)

	require.Len(t, curve, 3)
	for _, p := range curve {
		assert.Equal(t, 100000.0, p.Value)
	}
}

func TestBuildEquityCurve_ForwardFillAndSameDaySum(t *testing.T) {
	cal := NewCalendar([]time.Time{date(1), date(2), date(3), date(4), date(5), date(6)})

	trades := []TradeRecord{
		{Code: "600001", ExitDate: date(3), ReturnPct: 0.10},
		{Code: "600002", ExitDate: date(3), ReturnPct: -0.05}, // dijumlahkan, bukan dikomposit
		{Code: "600003", ExitDate: date(5), ReturnPct: 0.02},
	}

	curve := BuildEquityCurve(cal, trades, 100000)
	require.Len(t, curve, cal.Len(), "tepat satu nilai per tanggal kalender")

	// Sebelum exit pertama: initial capital.
	assert.Equal(t, 100000.0, curve[0].Value)
	assert.Equal(t, 100000.0, curve[1].Value)

	// D3: (1 + 0.10 - 0.05) = 1.05, di-forward-fill ke D4.
	assert.InDelta(t, 105000, curve[2].Value, 1e-6)
	assert.InDelta(t, 105000, curve[3].Value, 1e-6)

	// D5: 1.05 * 1.02, bertahan sampai akhir kalender.
	assert.InDelta(t, 107100, curve[4].Value, 1e-6)
	assert.InDelta(t, 107100, curve[5].Value, 1e-6)

	for i, p := range curve {
		assert.Equal(t, cal.At(i), p.Date)
	}
}
