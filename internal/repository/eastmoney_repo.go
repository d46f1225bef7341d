package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/pkg/httpclient"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/utils"

	"golang.org/x/time/rate"
)

// SnapshotProvider menyediakan snapshot pasar (kode, nama, kapitalisasi)
// untuk tahap screening universe.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context) ([]dto.SnapshotEntry, error)
}

type eastmoneyRepository struct {
	klineClient    httpclient.HTTPClient
	snapshotClient httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// EastmoneyRepository menggabungkan peran provider K-line dan snapshot.
type EastmoneyRepository interface {
	KlineProvider
	SnapshotProvider
}

func NewEastmoneyRepository(cfg *config.Config, log *logger.Logger) (EastmoneyRepository, error) {
	requestLimiter, err := newRequestLimiter(cfg.Datasource.Eastmoney.MaxRequestPerMinute)
	if err != nil {
		return nil, fmt.Errorf("eastmoney: %w", err)
	}

	return &eastmoneyRepository{
		klineClient:    httpclient.New(cfg.Datasource.Eastmoney.BaseURL, cfg.Datasource.Eastmoney.Timeout, ""),
		snapshotClient: httpclient.New(cfg.Datasource.Eastmoney.SnapshotBaseURL, cfg.Datasource.Eastmoney.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}, nil
}

func (r *eastmoneyRepository) Name() string {
	return dto.DatasourceEastmoney
}

// toSecID memetakan kode ke secid Eastmoney: pasar Shanghai (6/9) berawalan
// "1.", sisanya "0.".
func toSecID(code string) string {
	if utils.HasAnyPrefix(code, "6", "9") {
		return "1." + code
	}
	return "0." + code
}

func adjustToFqt(adjust string) string {
	switch adjust {
	case "qfq":
		return "1"
	case "hfq":
		return "2"
	default:
		return "0"
	}
}

func (r *eastmoneyRepository) GetDailyKline(ctx context.Context, param dto.GetKlineParam) ([]dto.KlineBar, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"secid":   toSecID(param.Code),
		"klt":     "101", // harian
		"fqt":     adjustToFqt(param.Adjust),
		"beg":     utils.FormatCompact(param.Start),
		"end":     utils.FormatCompact(param.End),
		"fields1": "f1,f2,f3,f4,f5,f6",
		"fields2": "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
	}

	var emResp dto.EastmoneyKlineResponse
	resp, err := r.klineClient.Get(ctx, "/api/qt/stock/kline/get", queryParams, nil, &emResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kline from eastmoney: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Eastmoney API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("eastmoney api returned status: %d", resp.StatusCode)
	}
	if emResp.Data == nil {
		return nil, fmt.Errorf("no kline data returned for symbol: %s", param.Code)
	}

	bars := make([]dto.KlineBar, 0, len(emResp.Data.Klines))
	for _, line := range emResp.Data.Klines {
		bar, ok := parseEastmoneyKline(line)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseEastmoneyKline membaca satu baris CSV kline:
// date,open,close,high,low,volume,amount,amplitude,pct,change,turnover.
func parseEastmoneyKline(line string) (dto.KlineBar, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return dto.KlineBar{}, false
	}

	date, err := time.Parse(utils.ISODateLayout, parts[0])
	if err != nil {
		return dto.KlineBar{}, false
	}

	nums := make([]float64, 6)
	for i := 1; i <= 6; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return dto.KlineBar{}, false
		}
		nums[i-1] = v
	}

	bar := dto.KlineBar{
		Date:   date,
		Open:   nums[0],
		Close:  nums[1],
		High:   nums[2],
		Low:    nums[3],
		Volume: nums[4],
		Amount: nums[5],
	}
	if len(parts) >= 11 {
		if turnover, err := strconv.ParseFloat(parts[10], 64); err == nil {
			bar.Turnover = turnover
		}
	}
	return bar, true
}

const snapshotPageSize = 200

// GetSnapshot menarik seluruh papan A-share halaman demi halaman dan
// mengembalikan kode, nama, dan kapitalisasi pasar (dalam yuan).
func (r *eastmoneyRepository) GetSnapshot(ctx context.Context) ([]dto.SnapshotEntry, error) {
	var entries []dto.SnapshotEntry

	for page := 1; ; page++ {
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		queryParams := map[string]string{
			"pn":     strconv.Itoa(page),
			"pz":     strconv.Itoa(snapshotPageSize),
			"po":     "1",
			"np":     "1",
			"fltt":   "2",
			"fid":    "f12",
			"fs":     "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23",
			"fields": "f12,f14,f20",
		}

		var snapResp dto.EastmoneySnapshotResponse
		resp, err := r.snapshotClient.Get(ctx, "/api/qt/clist/get", queryParams, nil, &snapResp)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch market snapshot from eastmoney: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("eastmoney snapshot api returned status: %d", resp.StatusCode)
		}
		if snapResp.Data == nil || len(snapResp.Data.Diff) == 0 {
			break
		}

		for _, row := range snapResp.Data.Diff {
			entry := dto.SnapshotEntry{Code: row.Code, Name: row.Name}
			// Kapitalisasi bernilai "-" ketika instrumen suspend.
			if v, ok := row.MarketCap.(float64); ok {
				entry.MarketCap = v
			}
			entries = append(entries, entry)
		}

		if len(entries) >= snapResp.Data.Total {
			break
		}
	}

	r.logger.Info("Fetched market snapshot", logger.IntField("instruments", len(entries)))
	return entries, nil
}
