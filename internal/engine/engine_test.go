package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func bar(d int, open, high, low, close float64) Bar {
	return Bar{Date: date(d), Open: open, High: high, Low: low, Close: close}
}

func baseConfig() Config {
	return Config{
		InitialCapital: 100000,
		PositionSize:   1,
		HoldingPeriod:  2,
		CommissionRate: 0.0003,
		StampDutyRate:  0.001,
	}
}

// indexBars menyediakan sesi D1..D6 agar kalender tetap lengkap meskipun
// instrumen yang diuji suspend di sebagian sesi.
func indexBars() []Bar {
	bars := make([]Bar, 0, 6)
	for d := 1; d <= 6; d++ {
		bars = append(bars, bar(d, 100, 101, 99, 100))
	}
	return bars
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero initial capital", mutate: func(c *Config) { c.InitialCapital = 0 }},
		{name: "negative initial capital", mutate: func(c *Config) { c.InitialCapital = -1 }},
		{name: "zero position size", mutate: func(c *Config) { c.PositionSize = 0 }},
		{name: "position size above one", mutate: func(c *Config) { c.PositionSize = 1.5 }},
		{name: "zero holding period", mutate: func(c *Config) { c.HoldingPeriod = 0 }},
		{name: "zero take profit", mutate: func(c *Config) { c.TakeProfitPct = fptr(0) }},
		{name: "zero stop loss", mutate: func(c *Config) { c.StopLossPct = fptr(0) }},
		{name: "negative commission", mutate: func(c *Config) { c.CommissionRate = -0.1 }},
		{name: "negative stamp duty", mutate: func(c *Config) { c.StampDutyRate = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestEngine_TakeProfitScenario(t *testing.T) {
	cfg := baseConfig()
	cfg.TakeProfitPct = fptr(0.05)
	cfg.StopLossPct = fptr(0.05)

	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 9.9, 10.1, 9.8, 10),    // hari sinyal
			bar(2, 10, 10.2, 9.8, 10.1),   // entry di open
			bar(3, 10.2, 10.6, 10.0, 10.4), // high menembus target 10.5
			bar(4, 10.4, 10.5, 10.2, 10.3),
			bar(5, 10.3, 10.4, 10.1, 10.2),
			bar(6, 10.2, 10.3, 10.0, 10.1),
		},
	})

	eng, err := New(cfg)
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, date(2), trade.EntryDate, "entry harus sesi pertama setelah tanggal sinyal")
	assert.Equal(t, 10.0, trade.EntryPrice)
	assert.Equal(t, date(3), trade.ExitDate)
	assert.Equal(t, ExitTakeProfit, trade.ExitReason)
	assert.InDelta(t, 10.5, trade.ExitPrice, 1e-9, "exit tepat di harga target, bukan di high")
	assert.Equal(t, 1, trade.HoldingDays)

	// Aritmetika biaya: notional=100000, komisi beli=30, komisi jual=31.5,
	// bea meterai=105, laba bersih=100000*0.05-166.5=4833.5.
	assert.InDelta(t, 166.5, trade.TotalCost, 1e-6)
	assert.InDelta(t, 0.048335, trade.ReturnPct, 1e-9)
	assert.InDelta(t, 104833.5, result.FinalCapital, 1e-6)
}

func TestEngine_TieBreakPrefersTakeProfit(t *testing.T) {
	cfg := baseConfig()
	cfg.TakeProfitPct = fptr(0.05)
	cfg.StopLossPct = fptr(0.05)

	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10, 9.9, 10),
			bar(2, 10, 10.1, 9.9, 10),
			bar(3, 10, 10.6, 9.4, 10), // menembus target take-profit DAN stop-loss
			bar(4, 10, 10.1, 9.9, 10),
			bar(5, 10, 10.1, 9.9, 10),
			bar(6, 10, 10.1, 9.9, 10),
		},
	})

	eng, err := New(cfg)
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	require.Len(t, result.Trades, 1)
	assert.Equal(t, ExitTakeProfit, result.Trades[0].ExitReason)
	assert.InDelta(t, 10.5, result.Trades[0].ExitPrice, 1e-9)
}

func TestEngine_LimitUpEntryRejected(t *testing.T) {
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 11.1, 11.5, 11.1, 11.3), // open == low && open > 10*1.098
			bar(3, 11.3, 11.5, 11.2, 11.4),
			bar(4, 11.4, 11.6, 11.3, 11.5),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalCapital)
}

func TestEngine_EntryAtFirstCalendarSession(t *testing.T) {
	// Sinyal bertanggal sebelum rentang panel: entry jatuh di sesi pertama
	// kalender. Tanpa close sesi sebelumnya pemeriksaan limit-up dilewati
	// dan trade tetap masuk di open.
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(2, 10, 10.2, 9.9, 10.1),
			bar(3, 10.1, 10.3, 10.0, 10.2),
			bar(4, 10.2, 10.4, 10.1, 10.6),
			bar(5, 10.6, 10.7, 10.4, 10.5),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, date(2), trade.EntryDate)
	assert.Equal(t, 10.0, trade.EntryPrice)
	assert.Equal(t, ExitHoldingPeriod, trade.ExitReason)
	assert.Equal(t, date(4), trade.ExitDate)
	assert.Equal(t, 10.6, trade.ExitPrice)
}

func TestEngine_PrevSessionHaltDiscardsEntry(t *testing.T) {
	// Kalender punya D1 dari instrumen indeks; 600001 suspend hari itu,
	// jadi close sesi sebelum entry tidak tersedia dan sinyal dibuang.
	panel := NewPanel(map[string][]Bar{
		"IDX": indexBars(),
		"600001": {
			bar(2, 10, 10.2, 9.9, 10.1),
			bar(3, 10.1, 10.3, 10.0, 10.2),
			bar(4, 10.2, 10.4, 10.1, 10.6),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalCapital)
}

func TestEngine_SignalAtOrAfterLastSessionDiscarded(t *testing.T) {
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.1, 9.9, 10),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{
		{Date: date(2), Code: "600001"},
		{Date: date(5), Code: "600001"},
	})
	assert.Empty(t, result.Trades)
}

func TestEngine_EntryHaltDiscarded(t *testing.T) {
	// Kalender punya D2 dari instrumen indeks, tetapi 600001 suspend hari itu.
	panel := NewPanel(map[string][]Bar{
		"IDX": indexBars(),
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(3, 10, 10.1, 9.9, 10),
			bar(4, 10, 10.1, 9.9, 10),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	assert.Empty(t, result.Trades)
}

func TestEngine_HaltedScanDayConsumesOffset(t *testing.T) {
	cfg := baseConfig()
	cfg.TakeProfitPct = fptr(0.05)

	// D3 suspend: slot offset pertama terpakai tanpa evaluasi, take-profit
	// baru terdeteksi pada D4.
	panel := NewPanel(map[string][]Bar{
		"IDX": indexBars(),
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.9, 10.1),
			bar(4, 10.3, 10.8, 10.2, 10.6),
			bar(5, 10.6, 10.7, 10.4, 10.5),
			bar(6, 10.5, 10.6, 10.3, 10.4),
		},
	})

	eng, err := New(cfg)
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	require.Len(t, result.Trades, 1)
	assert.Equal(t, date(4), result.Trades[0].ExitDate)
	assert.Equal(t, ExitTakeProfit, result.Trades[0].ExitReason)
}

func TestEngine_ForcedExitAtHoldingPeriodClose(t *testing.T) {
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.9, 10.1), // entry
			bar(3, 10.1, 10.3, 10.0, 10.2),
			bar(4, 10.2, 10.4, 10.1, 10.8), // forced exit di close
			bar(5, 10.8, 10.9, 10.7, 10.8),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, ExitHoldingPeriod, trade.ExitReason)
	assert.Equal(t, date(4), trade.ExitDate)
	assert.Equal(t, 10.8, trade.ExitPrice)
	assert.Equal(t, 2, trade.HoldingDays)
}

func TestEngine_LimitDownBlocksForcedExit(t *testing.T) {
	// Hari forced exit membuka limit-down satu arah: open == high dan open
	// di bawah 10*0.902. Trade dibuang utuh dan kapital tidak berubah.
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.9, 10.1),
			bar(3, 10.1, 10.2, 9.9, 10),
			bar(4, 8.9, 8.9, 8.5, 8.6),
			bar(5, 8.6, 8.8, 8.5, 8.7),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalCapital)
}

func TestEngine_WindowPastCalendarEndUnresolved(t *testing.T) {
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.9, 10.1), // entry, tetapi entry+2 melewati akhir kalender
			bar(3, 10.1, 10.3, 10.0, 10.2),
		},
	})

	eng, err := New(baseConfig())
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{{Date: date(1), Code: "600001"}})
	assert.Empty(t, result.Trades)
	assert.Equal(t, 100000.0, result.FinalCapital)
}

func TestEngine_CapitalCompoundsSequentially(t *testing.T) {
	cfg := baseConfig()
	cfg.CommissionRate = 0
	cfg.StampDutyRate = 0
	cfg.HoldingPeriod = 1

	// Dua trade berurutan, masing-masing +10% tanpa biaya: notional trade
	// kedua harus memakai kapital hasil trade pertama.
	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.9, 10.1),
			bar(3, 10.5, 11.2, 10.4, 11),
			bar(4, 11, 11.1, 10.9, 11),
			bar(5, 11, 12.3, 10.9, 12.1),
			bar(6, 12.1, 12.2, 12.0, 12.1),
		},
	})

	eng, err := New(cfg)
	require.NoError(t, err)

	result := eng.Run(panel, []Signal{
		{Date: date(1), Code: "600001"}, // entry D2 @10, exit D3 @11 -> +10%
		{Date: date(3), Code: "600001"}, // entry D4 @11, exit D5 @12.1 -> +10%
	})
	require.Len(t, result.Trades, 2)
	assert.InDelta(t, 0.1, result.Trades[0].ReturnPct, 1e-9)
	assert.InDelta(t, 0.1, result.Trades[1].ReturnPct, 1e-9)
	assert.InDelta(t, 121000, result.FinalCapital, 1e-6)
}

func TestEngine_Deterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.TakeProfitPct = fptr(0.05)
	cfg.StopLossPct = fptr(0.03)

	panel := NewPanel(map[string][]Bar{
		"600001": {
			bar(1, 10, 10.1, 9.9, 10),
			bar(2, 10, 10.2, 9.8, 10.1),
			bar(3, 10.2, 10.6, 10.0, 10.4),
			bar(4, 10.4, 10.5, 10.2, 10.3),
			bar(5, 10.3, 10.4, 10.1, 10.2),
			bar(6, 10.2, 10.3, 10.0, 10.1),
		},
		"600002": {
			bar(1, 20, 20.2, 19.8, 20),
			bar(2, 20, 20.4, 19.6, 20.2),
			bar(3, 20.2, 20.6, 19.4, 19.6),
			bar(4, 19.6, 20.0, 19.4, 19.8),
			bar(5, 19.8, 20.2, 19.6, 20.0),
			bar(6, 20.0, 20.4, 19.8, 20.2),
		},
	})

	signals := []Signal{
		{Date: date(1), Code: "600002"},
		{Date: date(1), Code: "600001"},
		{Date: date(2), Code: "600002"},
	}

	eng, err := New(cfg)
	require.NoError(t, err)

	first := eng.Run(panel, signals)
	second := eng.Run(panel, signals)
	assert.Equal(t, first, second)
}
