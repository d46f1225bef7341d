package dto

import "time"

// KlineBar adalah satu baris OHLCV harian hasil provider, sebelum disimpan.
type KlineBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	Close    float64   `json:"close"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Volume   float64   `json:"volume"`
	Amount   float64   `json:"amount"`
	Turnover float64   `json:"turnover"`
}

// GetKlineParam adalah parameter pengambilan K-line harian satu instrumen.
type GetKlineParam struct {
	Code   string
	Start  time.Time
	End    time.Time
	Adjust string
}

// FetchStats merangkum hasil satu batch pengambilan K-line.
type FetchStats struct {
	Total       int      `json:"total"`
	Succeeded   int      `json:"succeeded"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	FailedCodes []string `json:"failed_codes,omitempty"`
}

// SnapshotEntry adalah satu baris snapshot pasar: kode, nama, kapitalisasi.
type SnapshotEntry struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
}

// TushareResponse adalah amplop respons api.tushare.pro.
type TushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// TushareRequest adalah body POST api.tushare.pro.
type TushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

// EastmoneyKlineResponse adalah respons push2his; setiap kline adalah string
// CSV "date,open,close,high,low,volume,amount,amplitude,pct,change,turnover".
type EastmoneyKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// EastmoneySnapshotResponse adalah respons push2 clist untuk snapshot pasar.
type EastmoneySnapshotResponse struct {
	Data *struct {
		Total int `json:"total"`
		Diff  []struct {
			Code      string      `json:"f12"`
			Name      string      `json:"f14"`
			MarketCap interface{} `json:"f20"` // angka, atau "-" saat suspend
		} `json:"diff"`
	} `json:"data"`
}
