package engine

import "time"

// Panel adalah lookup read-only (instrumen, tanggal) -> Bar. Sesi yang
// suspend atau hilang dari data dikembalikan sebagai not-ok, bukan error,
// sehingga logika skip/discard di simulator menjadi cabang eksplisit.
type Panel struct {
	bars  map[string]map[time.Time]Bar
	dates []time.Time
}

// NewPanel membangun panel dari bar per instrumen. Tanggal duplikat untuk
// instrumen yang sama mengambil kemunculan terakhir.
func NewPanel(series map[string][]Bar) *Panel {
	p := &Panel{bars: make(map[string]map[time.Time]Bar, len(series))}
	seen := make(map[time.Time]struct{})
	for code, bars := range series {
		byDate := make(map[time.Time]Bar, len(bars))
		for _, b := range bars {
			d := day(b.Date)
			byDate[d] = b
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				p.dates = append(p.dates, d)
			}
		}
		p.bars[code] = byDate
	}
	return p
}

// Bar mengembalikan record OHLCV untuk (code, date), atau ok=false jika
// instrumen tersebut tidak memiliki data pada sesi itu (halt / missing).
func (p *Panel) Bar(code string, date time.Time) (Bar, bool) {
	byDate, ok := p.bars[code]
	if !ok {
		return Bar{}, false
	}
	b, ok := byDate[day(date)]
	return b, ok
}

// Dates mengembalikan gabungan seluruh tanggal yang tersedia di panel,
// bahan baku untuk Calendar. Urutannya tidak dijamin.
func (p *Panel) Dates() []time.Time {
	return p.dates
}
