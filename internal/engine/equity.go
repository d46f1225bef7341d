package engine

import "time"

// BuildEquityCurve mengubah trade log final menjadi deret nilai portofolio,
// satu titik untuk setiap tanggal kalender. ReturnPct dijumlahkan per tanggal
// exit (bukan dikomposit intra-hari), lalu dikalikan kumulatif (1+r) dalam
// urutan tanggal exit, diskalakan InitialCapital, dan di-forward-fill ke
// seluruh kalender. Tanggal sebelum exit pertama bernilai InitialCapital.
//
// Karena pengelompokan memakai tanggal exit, kurva ini hanya mencatat P&L
// yang sudah terealisasi; posisi yang masih terbuka tidak di-mark-to-market.
func BuildEquityCurve(cal *Calendar, trades []TradeRecord, initialCapital float64) []EquityPoint {
	dailyReturn := make(map[time.Time]float64, len(trades))
	for _, t := range trades {
		dailyReturn[day(t.ExitDate)] += t.ReturnPct
	}

	curve := make([]EquityPoint, 0, cal.Len())
	cumulative := 1.0
	value := initialCapital
	for i := 0; i < cal.Len(); i++ {
		date := cal.At(i)
		if r, ok := dailyReturn[date]; ok {
			cumulative *= 1 + r
			value = initialCapital * cumulative
		}
		curve = append(curve, EquityPoint{Date: date, Value: value})
	}
	return curve
}
