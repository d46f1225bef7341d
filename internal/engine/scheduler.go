package engine

import "sort"

// ScheduleSignals mengurutkan sinyal menaik berdasarkan tanggal dengan sort
// yang stabil: sinyal bertanggal sama mempertahankan urutan relatif aslinya.
// Urutan ini load-bearing — kapital adalah akumulator sekuensial tunggal,
// sehingga urutan pemrosesan menentukan notional setiap trade berikutnya.
func ScheduleSignals(signals []Signal) []Signal {
	scheduled := make([]Signal, len(signals))
	copy(scheduled, signals)
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].Date.Before(scheduled[j].Date)
	})
	return scheduled
}
