package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Datasource Datasource `mapstructure:"datasource"`
	Fetch      Fetch      `mapstructure:"fetch"`
	Screener   Screener   `mapstructure:"screener"`
	Backtest   Backtest   `mapstructure:"backtest"`
	Cache      Cache      `mapstructure:"cache"`
	Mailer     Mailer     `mapstructure:"mailer"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Datasource struct {
	Primary   string    `mapstructure:"primary"`
	Fallback  string    `mapstructure:"fallback"`
	Tushare   Tushare   `mapstructure:"tushare"`
	Eastmoney Eastmoney `mapstructure:"eastmoney"`
}

type Tushare struct {
	BaseURL             string        `mapstructure:"base_url"`
	Token               string        `mapstructure:"token"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Eastmoney struct {
	BaseURL             string        `mapstructure:"base_url"`
	SnapshotBaseURL     string        `mapstructure:"snapshot_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Fetch struct {
	Workers      int    `mapstructure:"workers"`
	MaxRetries   int    `mapstructure:"max_retries"`
	DefaultStart string `mapstructure:"default_start"`
	Adjust       string `mapstructure:"adjust"`
}

type Screener struct {
	MinMarketCap float64       `mapstructure:"min_market_cap"`
	MaxMarketCap float64       `mapstructure:"max_market_cap"`
	ExcludeGEM   bool          `mapstructure:"exclude_gem"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl"`
}

type Backtest struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	PositionSize   float64 `mapstructure:"position_size"`
	HoldingPeriod  int     `mapstructure:"holding_period"`
	CommissionRate float64 `mapstructure:"commission_rate"`
	StampDutyRate  float64 `mapstructure:"stamp_duty_rate"`
	OutputDir      string  `mapstructure:"output_dir"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Mailer struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type Scheduler struct {
	RefreshCron     string        `mapstructure:"refresh_cron"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

func Load() (*Config, error) {
	// .env bersifat opsional; environment yang sudah di-set tidak ditimpa.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("datasource.primary", "eastmoney")
	viper.SetDefault("datasource.fallback", "tushare")
	viper.SetDefault("datasource.tushare.base_url", "https://api.tushare.pro")
	viper.SetDefault("datasource.tushare.timeout", 30*time.Second)
	viper.SetDefault("datasource.tushare.max_request_per_minute", 120)
	viper.SetDefault("datasource.eastmoney.base_url", "https://push2his.eastmoney.com")
	viper.SetDefault("datasource.eastmoney.snapshot_base_url", "https://push2.eastmoney.com")
	viper.SetDefault("datasource.eastmoney.timeout", 30*time.Second)
	viper.SetDefault("datasource.eastmoney.max_request_per_minute", 300)

	viper.SetDefault("fetch.workers", 3)
	viper.SetDefault("fetch.max_retries", 3)
	viper.SetDefault("fetch.default_start", "20190101")
	viper.SetDefault("fetch.adjust", "qfq")

	viper.SetDefault("screener.min_market_cap", 5e9)
	viper.SetDefault("screener.max_market_cap", 0) // 0 berarti tanpa batas atas
	viper.SetDefault("screener.snapshot_ttl", 15*time.Minute)

	viper.SetDefault("backtest.initial_capital", 100000)
	viper.SetDefault("backtest.position_size", 1)
	viper.SetDefault("backtest.holding_period", 5)
	viper.SetDefault("backtest.commission_rate", 0.0003)
	viper.SetDefault("backtest.stamp_duty_rate", 0.001)
	viper.SetDefault("backtest.output_dir", "./results")

	viper.SetDefault("cache.default_expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 30*time.Minute)

	viper.SetDefault("scheduler.refresh_cron", "0 18 * * 1-5")
	viper.SetDefault("scheduler.timeout_duration", 30*time.Minute)
}
