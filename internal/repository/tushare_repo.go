package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"stock-backtest/config"
	"stock-backtest/internal/dto"
	"stock-backtest/pkg/httpclient"
	"stock-backtest/pkg/logger"
	"stock-backtest/pkg/utils"

	"golang.org/x/time/rate"
)

// KlineProvider adalah sumber K-line harian. Kegagalan per instrumen
// dikembalikan sebagai error biasa dan tidak pernah fatal untuk batch.
type KlineProvider interface {
	Name() string
	GetDailyKline(ctx context.Context, param dto.GetKlineParam) ([]dto.KlineBar, error)
}

type tushareRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewTushareRepository(cfg *config.Config, log *logger.Logger) (KlineProvider, error) {
	requestLimiter, err := newRequestLimiter(cfg.Datasource.Tushare.MaxRequestPerMinute)
	if err != nil {
		return nil, fmt.Errorf("tushare: %w", err)
	}

	return &tushareRepository{
		httpClient:     httpclient.New(cfg.Datasource.Tushare.BaseURL, cfg.Datasource.Tushare.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}, nil
}

func (r *tushareRepository) Name() string {
	return dto.DatasourceTushare
}

// toTsCode memetakan kode 6 digit ke format bursa Tushare: papan Shanghai
// (60/68/9) memakai akhiran .SH, sisanya .SZ.
func toTsCode(code string) string {
	if utils.HasAnyPrefix(code, "60", "68", "9") {
		return code + ".SH"
	}
	return code + ".SZ"
}

func (r *tushareRepository) GetDailyKline(ctx context.Context, param dto.GetKlineParam) ([]dto.KlineBar, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	body := dto.TushareRequest{
		APIName: "daily",
		Token:   r.cfg.Datasource.Tushare.Token,
		Params: map[string]string{
			"ts_code":    toTsCode(param.Code),
			"start_date": utils.FormatCompact(param.Start),
			"end_date":   utils.FormatCompact(param.End),
		},
		Fields: "trade_date,open,high,low,close,vol,amount",
	}

	var tsResp dto.TushareResponse
	resp, err := r.httpClient.Post(ctx, "/", body, nil, &tsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kline from tushare: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Tushare API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("tushare api returned status: %d", resp.StatusCode)
	}
	if tsResp.Code != 0 {
		return nil, fmt.Errorf("tushare api error: %s", tsResp.Msg)
	}

	bars := make([]dto.KlineBar, 0, len(tsResp.Data.Items))
	for _, item := range tsResp.Data.Items {
		bar, ok := parseTushareItem(item)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	// Tushare mengembalikan baris terbaru lebih dulu.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseTushareItem membaca satu item posisional sesuai fields yang diminta:
// trade_date, open, high, low, close, vol, amount.
func parseTushareItem(item []interface{}) (dto.KlineBar, bool) {
	if len(item) < 7 {
		return dto.KlineBar{}, false
	}

	dateStr, ok := item[0].(string)
	if !ok {
		return dto.KlineBar{}, false
	}
	date, err := time.Parse(utils.CompactDateLayout, dateStr)
	if err != nil {
		return dto.KlineBar{}, false
	}

	nums := make([]float64, 6)
	for i := 1; i <= 6; i++ {
		v, ok := item[i].(float64)
		if !ok {
			return dto.KlineBar{}, false
		}
		nums[i-1] = v
	}

	return dto.KlineBar{
		Date:   date,
		Open:   nums[0],
		High:   nums[1],
		Low:    nums[2],
		Close:  nums[3],
		Volume: nums[4],
		Amount: nums[5],
	}, true
}
