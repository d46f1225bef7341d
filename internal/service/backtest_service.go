package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/internal/engine"
	"stock-backtest/internal/model"
	"stock-backtest/internal/repository"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/mailer"
	"stock-backtest/pkg/utils"

	"gorm.io/datatypes"
)

// BacktestService mendefinisikan interface untuk layanan backtesting.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	GetRun(ctx context.Context, id uint) (*model.BacktestRun, error)
	ListRuns(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg        *config.Config
	log        *logger.Logger
	candleRepo repository.CandleRepository
	runRepo    repository.BacktestRunRepository
	mailer     *mailer.Mailer
	exporter   *CSVExporter
}

// NewBacktestService membuat instance baru dari backtestService.
func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	candleRepo repository.CandleRepository,
	runRepo repository.BacktestRunRepository,
	m *mailer.Mailer,
) BacktestService {
	return &backtestService{
		cfg:        cfg,
		log:        log,
		candleRepo: candleRepo,
		runRepo:    runRepo,
		mailer:     m,
		exporter:   NewCSVExporter(cfg.Backtest.OutputDir),
	}
}

// RunBacktest menjalankan simulasi trading berdasarkan data historis yang
// tersimpan di tabel candles.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	signals, err := ParseSignals(req.Signals)
	if err != nil {
		return nil, err
	}

	engineCfg := s.resolveEngineConfig(req)
	eng, err := engine.New(engineCfg)
	if err != nil {
		// Konfigurasi tidak valid bersifat fatal: lebih baik menolak run
		// daripada menghasilkan harga yang salah.
		return nil, err
	}

	panel, err := s.loadPanel(ctx, signals, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	result := eng.Run(panel, signals)
	summary := ComputeSummary(result)

	s.log.InfoContext(ctx, "Backtest simulation completed",
		logger.IntField("signals", len(signals)),
		logger.IntField("total_trades", summary.TotalTrades),
		logger.Float64Field("final_capital", summary.FinalCapital),
	)

	runID, err := s.persistRun(ctx, engineCfg, result, summary)
	if err != nil {
		// Hasil simulasi tetap dikembalikan meskipun persistensi gagal.
		s.log.ErrorContext(ctx, "Failed to persist backtest run", logger.ErrorField(err))
	}

	if req.ExportCSV {
		if err := s.exporter.Export(result, startedAt); err != nil {
			s.log.ErrorContext(ctx, "Failed to export backtest CSV", logger.ErrorField(err))
		}
	}

	if req.Notify && s.mailer.Enabled() {
		subject := fmt.Sprintf("Backtest finished: %d trades, win rate %.1f%%", summary.TotalTrades, summary.WinRate)
		if err := s.mailer.Send(subject, FormatSummaryText(summary)); err != nil {
			s.log.ErrorContext(ctx, "Failed to send backtest notification", logger.ErrorField(err))
		}
	}

	return &dto.BacktestResult{
		RunID:       runID,
		Config:      engineCfg,
		Trades:      result.Trades,
		EquityCurve: result.EquityCurve,
		Summary:     summary,
		StartedAt:   startedAt,
	}, nil
}

func (s *backtestService) GetRun(ctx context.Context, id uint) (*model.BacktestRun, error) {
	return s.runRepo.FindByID(ctx, id)
}

func (s *backtestService) ListRuns(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error) {
	return s.runRepo.List(ctx, param)
}

// resolveEngineConfig mengisi parameter kosong dari default konfigurasi.
func (s *backtestService) resolveEngineConfig(req dto.BacktestRequest) engine.Config {
	cfg := engine.Config{
		InitialCapital: s.cfg.Backtest.InitialCapital,
		PositionSize:   s.cfg.Backtest.PositionSize,
		HoldingPeriod:  s.cfg.Backtest.HoldingPeriod,
		CommissionRate: s.cfg.Backtest.CommissionRate,
		StampDutyRate:  s.cfg.Backtest.StampDutyRate,
		TakeProfitPct:  req.TakeProfitPct,
		StopLossPct:    req.StopLossPct,
	}
	if req.InitialCapital > 0 {
		cfg.InitialCapital = req.InitialCapital
	}
	if req.PositionSize > 0 {
		cfg.PositionSize = req.PositionSize
	}
	if req.HoldingPeriod > 0 {
		cfg.HoldingPeriod = req.HoldingPeriod
	}
	if req.CommissionRate != nil {
		cfg.CommissionRate = *req.CommissionRate
	}
	if req.StampDutyRate != nil {
		cfg.StampDutyRate = *req.StampDutyRate
	}
	return cfg
}

// loadPanel memuat candle seluruh instrumen yang disebut sinyal ke dalam
// panel harga in-memory milik engine.
func (s *backtestService) loadPanel(ctx context.Context, signals []engine.Signal, startStr, endStr string) (*engine.Panel, error) {
	codeSet := make(map[string]struct{}, len(signals))
	for _, sig := range signals {
		codeSet[sig.Code] = struct{}{}
	}
	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var start, end time.Time
	var err error
	if startStr != "" {
		if start, err = utils.ParseDate(startStr); err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if endStr != "" {
		if end, err = utils.ParseDate(endStr); err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}

	series, err := s.candleRepo.GetSeries(ctx, codes, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load candles: %w", err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no candle data available for requested instruments, run fetch first")
	}

	barSeries := make(map[string][]engine.Bar, len(series))
	for code, candles := range series {
		bars := make([]engine.Bar, 0, len(candles))
		for _, c := range candles {
			bars = append(bars, engine.Bar{
				Date:     c.Date,
				Open:     c.Open,
				High:     c.High,
				Low:      c.Low,
				Close:    c.Close,
				Volume:   c.Volume,
				Amount:   c.Amount,
				Turnover: c.Turnover,
			})
		}
		barSeries[code] = bars
	}
	return engine.NewPanel(barSeries), nil
}

func (s *backtestService) persistRun(ctx context.Context, cfg engine.Config, result *engine.Result, summary dto.BacktestSummary) (uint, error) {
	params, err := json.Marshal(cfg)
	if err != nil {
		return 0, err
	}
	trades, err := json.Marshal(result.Trades)
	if err != nil {
		return 0, err
	}
	equity, err := json.Marshal(result.EquityCurve)
	if err != nil {
		return 0, err
	}

	run := &model.BacktestRun{
		Params:          datatypes.JSON(params),
		TradeLog:        datatypes.JSON(trades),
		EquityCurve:     datatypes.JSON(equity),
		TotalTrades:     summary.TotalTrades,
		WinningTrades:   summary.WinningTrades,
		LosingTrades:    summary.LosingTrades,
		WinRate:         summary.WinRate,
		ProfitFactor:    summary.ProfitFactor,
		TotalProfitLoss: summary.TotalProfitLoss,
		MaxDrawdown:     summary.MaxDrawdown,
		FinalCapital:    summary.FinalCapital,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return 0, err
	}
	return run.ID, nil
}

// ParseSignals mengubah input mentah menjadi sinyal engine. Tanggal yang
// tidak bisa diparse adalah kesalahan konfigurasi dan bersifat fatal.
func ParseSignals(inputs []dto.SignalInput) ([]engine.Signal, error) {
	signals := make([]engine.Signal, 0, len(inputs))
	for i, in := range inputs {
		date, err := utils.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		if in.Code == "" {
			return nil, fmt.Errorf("signal %d: empty instrument code", i)
		}
		signals = append(signals, engine.Signal{Date: date, Code: in.Code})
	}
	return signals, nil
}

// ComputeSummary menghitung metrik kinerja dari hasil engine.
func ComputeSummary(result *engine.Result) dto.BacktestSummary {
	summary := dto.BacktestSummary{FinalCapital: result.FinalCapital}

	var totalHoldingDays int
	for _, trade := range result.Trades {
		summary.TotalTrades++
		totalHoldingDays += trade.HoldingDays

		// net profit = return_pct * notional; notional tidak disimpan di
		// record, jadi P&L agregat dihitung dari selisih kapital.
		if trade.ReturnPct > 0 {
			summary.WinningTrades++
			summary.TotalProfit += trade.ReturnPct
		} else {
			summary.LosingTrades++
			summary.TotalLoss += trade.ReturnPct
		}
	}

	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(summary.TotalTrades) * 100
		summary.AvgHoldingDays = float64(totalHoldingDays) / float64(summary.TotalTrades)
	}
	if summary.TotalLoss != 0 {
		summary.ProfitFactor = summary.TotalProfit / -summary.TotalLoss
	}

	if len(result.EquityCurve) > 0 {
		initial := result.EquityCurve[0].Value
		summary.TotalProfitLoss = result.FinalCapital - initial
		summary.MaxDrawdown = maxDrawdown(result.EquityCurve)
	}
	return summary
}

// maxDrawdown mengembalikan penurunan puncak-ke-lembah terbesar sebagai
// fraksi positif dari nilai puncak.
func maxDrawdown(curve []engine.EquityPoint) float64 {
	var peak, worst float64
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// FormatSummaryText menyusun ringkasan run untuk notifikasi email.
func FormatSummaryText(summary dto.BacktestSummary) string {
	return fmt.Sprintf(
		"Total trades: %d\nWinning: %d\nLosing: %d\nWin rate: %.2f%%\nProfit factor: %.2f\nTotal P&L: %.2f\nMax drawdown: %.2f%%\nAvg holding days: %.1f\nFinal capital: %.2f\n",
		summary.TotalTrades,
		summary.WinningTrades,
		summary.LosingTrades,
		summary.WinRate,
		summary.ProfitFactor,
		summary.TotalProfitLoss,
		summary.MaxDrawdown*100,
		summary.AvgHoldingDays,
		summary.FinalCapital,
	)
}
