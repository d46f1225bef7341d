package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stock-backtest/internal/dto"
	"stock-backtest/internal/engine"
	"stock-backtest/pkg/utils"
)

// CSVExporter menulis trade log dan equity curve sebagai file CSV ke
// direktori output.
type CSVExporter struct {
	outputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{outputDir: outputDir}
}

// Export menulis sepasang file trades_<ts>.csv dan equity_<ts>.csv.
func (e *CSVExporter) Export(result *engine.Result, startedAt time.Time) error {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	ts := startedAt.Format("20060102_150405")

	tradesPath := filepath.Join(e.outputDir, fmt.Sprintf("trades_%s.csv", ts))
	if err := e.writeTrades(tradesPath, result.Trades); err != nil {
		return err
	}

	equityPath := filepath.Join(e.outputDir, fmt.Sprintf("equity_%s.csv", ts))
	return e.writeEquity(equityPath, result.EquityCurve)
}

func (e *CSVExporter) writeTrades(path string, trades []engine.TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"code", "entry_date", "entry_price", "exit_date", "exit_price", "exit_reason", "return_pct", "total_cost", "holding_days"}); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Code,
			utils.FormatISO(t.EntryDate),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			utils.FormatISO(t.ExitDate),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			string(t.ExitReason),
			strconv.FormatFloat(t.ReturnPct, 'f', -1, 64),
			strconv.FormatFloat(t.TotalCost, 'f', -1, 64),
			strconv.Itoa(t.HoldingDays),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *CSVExporter) writeEquity(path string, curve []engine.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "value"}); err != nil {
		return err
	}
	for _, p := range curve {
		if err := w.Write([]string{utils.FormatISO(p.Date), strconv.FormatFloat(p.Value, 'f', 2, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ParseSignalsCSV membaca sinyal dari CSV dengan kolom date,code. Baris
// header opsional dideteksi dari kolom pertama yang tidak bisa diparse
// sebagai tanggal.
func ParseSignalsCSV(r io.Reader) ([]dto.SignalInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read signals csv: %w", err)
	}

	signals := make([]dto.SignalInput, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("signals csv line %d: expected at least 2 columns", i+1)
		}
		if i == 0 {
			if _, err := utils.ParseDate(rec[0]); err != nil {
				continue // header
			}
		}
		signals = append(signals, dto.SignalInput{Date: rec[0], Code: rec[1]})
	}
	return signals, nil
}
