package engine

import "time"

// Ambang heuristik untuk limit-up / limit-down satu arah: open menempel di
// low (atau high) dan bergerak lebih dari ~10% terhadap close sesi sebelumnya.
const (
	limitUpRatio   = 1.098
	limitDownRatio = 0.902
)

// simulator menjalankan state machine entry/exit untuk satu sinyal.
type simulator struct {
	cfg   Config
	cal   *Calendar
	panel *Panel
}

// simulate memproses satu sinyal terhadap kapital saat ini dan mengembalikan
// record trade beserta laba bersihnya. ok=false berarti sinyal dibuang atau
// trade berakhir Unresolved: tidak ada record dan kapital tidak berubah.
func (s *simulator) simulate(sig Signal, capital float64) (TradeRecord, float64, bool) {
	entryIdx, ok := s.cal.NextAfter(sig.Date)
	if !ok {
		// Tidak ada sesi setelah tanggal sinyal.
		return TradeRecord{}, 0, false
	}

	entryDate := s.cal.At(entryIdx)
	entryBar, ok := s.panel.Bar(sig.Code, entryDate)
	if !ok {
		// Suspend pada hari entry.
		return TradeRecord{}, 0, false
	}
	entryPrice := entryBar.Open

	// Tolak entry bila hari itu limit-up satu arah: open == low dan open
	// melampaui close sesi sebelumnya lebih dari ambang. Tanpa sesi
	// sebelumnya (entry di sesi pertama kalender) pemeriksaan dilewati dan
	// entry tetap jalan; sesi sebelumnya ada tapi instrumennya suspend
	// membatalkan entry.
	if entryIdx > 0 {
		prevBar, ok := s.panel.Bar(sig.Code, s.cal.At(entryIdx-1))
		if !ok {
			return TradeRecord{}, 0, false
		}
		if entryBar.Open == entryBar.Low && entryBar.Open > prevBar.Close*limitUpRatio {
			return TradeRecord{}, 0, false
		}
	}

	notional := capital * s.cfg.PositionSize
	commissionBuy := notional * s.cfg.CommissionRate

	exitDate, exitPrice, exitReason, resolved := s.scanHolding(sig.Code, entryIdx, entryPrice)
	if !resolved {
		exitDate, exitPrice, resolved = s.forcedExit(sig.Code, entryIdx)
		exitReason = ExitHoldingPeriod
	}
	if !resolved {
		// Unresolved: window melewati akhir kalender, atau sell terblokir
		// limit-down / suspend pada hari forced exit. Trade dibuang utuh.
		return TradeRecord{}, 0, false
	}

	priceRatio := exitPrice / entryPrice
	commissionSell := notional * priceRatio * s.cfg.CommissionRate
	stampDuty := notional * priceRatio * s.cfg.StampDutyRate
	totalCost := commissionBuy + commissionSell + stampDuty
	netProfit := notional*(priceRatio-1) - totalCost

	rec := TradeRecord{
		Code:        sig.Code,
		EntryDate:   entryDate,
		EntryPrice:  entryPrice,
		ExitDate:    exitDate,
		ExitPrice:   exitPrice,
		ExitReason:  exitReason,
		ReturnPct:   netProfit / notional,
		TotalCost:   totalCost,
		HoldingDays: int(exitDate.Sub(entryDate).Hours() / 24),
	}
	return rec, netProfit, true
}

// scanHolding memindai offset 1..HoldingPeriod dari hari entry dan
// mengembalikan exit pertama yang terpicu. Hari suspend tetap mengonsumsi
// satu slot offset tanpa efek lain. Take-profit dicek sebelum stop-loss,
// jadi hari yang memicu keduanya diresolusi sebagai take-profit.
func (s *simulator) scanHolding(code string, entryIdx int, entryPrice float64) (time.Time, float64, ExitReason, bool) {
	for i := 1; i <= s.cfg.HoldingPeriod; i++ {
		idx := entryIdx + i
		if idx >= s.cal.Len() {
			break
		}
		date := s.cal.At(idx)
		bar, ok := s.panel.Bar(code, date)
		if !ok {
			continue
		}

		if s.cfg.TakeProfitPct != nil {
			target := entryPrice * (1 + *s.cfg.TakeProfitPct)
			if bar.High >= target {
				return date, target, ExitTakeProfit, true
			}
		}
		if s.cfg.StopLossPct != nil {
			target := entryPrice * (1 - *s.cfg.StopLossPct)
			if bar.Low <= target {
				return date, target, ExitStopLoss, true
			}
		}
	}
	return time.Time{}, 0, "", false
}

// forcedExit menjual pada close sesi entryIdx+HoldingPeriod. Trade menjadi
// Unresolved bila sesi itu melewati akhir kalender, suspend, close sesi
// sebelumnya tidak tersedia, atau terblokir limit-down satu arah (open ==
// high dan open di bawah ambang terhadap close sesi sebelumnya). Tidak ada
// roll-forward: trade dibuang tanpa pencatatan.
func (s *simulator) forcedExit(code string, entryIdx int) (time.Time, float64, bool) {
	idx := entryIdx + s.cfg.HoldingPeriod
	if idx >= s.cal.Len() {
		return time.Time{}, 0, false
	}

	date := s.cal.At(idx)
	bar, ok := s.panel.Bar(code, date)
	if !ok {
		return time.Time{}, 0, false
	}

	prevBar, ok := s.panel.Bar(code, s.cal.At(idx-1))
	if !ok {
		return time.Time{}, 0, false
	}
	if bar.Open == bar.High && bar.Open < prevBar.Close*limitDownRatio {
		return time.Time{}, 0, false
	}
	return date, bar.Close, true
}
