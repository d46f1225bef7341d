package engine

import "time"

// ExitReason menjelaskan kenapa sebuah posisi ditutup.
type ExitReason string

const (
	ExitTakeProfit    ExitReason = "take_profit"
	ExitStopLoss      ExitReason = "stop_loss"
	ExitHoldingPeriod ExitReason = "holding_period"
)

// Signal adalah instruksi beli untuk satu instrumen pada tanggal tertentu.
// Duplikat diperbolehkan dan diproses secara independen.
type Signal struct {
	Date time.Time `json:"date"`
	Code string    `json:"code"`
}

// Bar adalah satu baris OHLCV harian, read-only bagi engine.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	Amount   float64   `json:"amount"`
	Turnover float64   `json:"turnover"`
}

// TradeRecord dicatat hanya ketika exit berhasil diresolusi.
type TradeRecord struct {
	Code        string     `json:"code"`
	EntryDate   time.Time  `json:"entry_date"`
	EntryPrice  float64    `json:"entry_price"`
	ExitDate    time.Time  `json:"exit_date"`
	ExitPrice   float64    `json:"exit_price"`
	ExitReason  ExitReason `json:"exit_reason"`
	ReturnPct   float64    `json:"return_pct"`
	TotalCost   float64    `json:"total_cost"`
	HoldingDays int        `json:"holding_days"`
}

// EquityPoint adalah nilai portofolio pada satu tanggal kalender.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Result adalah keluaran lengkap dari satu simulasi.
type Result struct {
	Trades       []TradeRecord `json:"trades"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	FinalCapital float64       `json:"final_capital"`
}

// day menormalkan timestamp ke tengah malam UTC sehingga tanggal bisa
// dipakai sebagai kunci lookup.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
