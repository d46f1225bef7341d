package engine

// Engine menjalankan simulasi trading penuh: sinyal diurutkan, disimulasikan
// satu per satu secara sekuensial terhadap akumulator kapital tunggal, lalu
// trade log dirangkai menjadi equity curve. Engine tidak tahu-menahu soal
// sumber data maupun penyajian hasil.
//
// Seluruh komputasi deterministik: input identik selalu menghasilkan trade
// log dan equity curve yang identik byte demi byte. Jangan memparalelkan
// loop sinyal — notional setiap trade bergantung pada kapital hasil seluruh
// resolusi sebelumnya.
type Engine struct {
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Run mensimulasikan seluruh sinyal terhadap panel harga yang diberikan.
// Sinyal yang dibuang atau Unresolved dilewati tanpa menghentikan run.
func (e *Engine) Run(panel *Panel, signals []Signal) *Result {
	cal := NewCalendar(panel.Dates())
	sim := &simulator{cfg: e.cfg, cal: cal, panel: panel}

	capital := e.cfg.InitialCapital
	trades := make([]TradeRecord, 0, len(signals))
	for _, sig := range ScheduleSignals(signals) {
		rec, netProfit, ok := sim.simulate(sig, capital)
		if !ok {
			continue
		}
		trades = append(trades, rec)
		capital += netProfit
	}

	return &Result{
		Trades:       trades,
		EquityCurve:  BuildEquityCurve(cal, trades, e.cfg.InitialCapital),
		FinalCapital: capital,
	}
}
