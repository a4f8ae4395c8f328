package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"CurveSentinel/internal/calculator"
	"CurveSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		APIKey            string        `yaml:"api_key"`
		APISecret         string        `yaml:"api_secret"`
		BaseURL           string        `yaml:"base_url"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"exchange"`
	Scan struct {
		Cron        string   `yaml:"cron"`
		Timeframe   string   `yaml:"timeframe"`
		CandleLimit int      `yaml:"candle_limit"`
		QuoteAsset  string   `yaml:"quote_asset"`
		MaxPrice    *float64 `yaml:"max_price"`
		MinVolume   *float64 `yaml:"min_volume"`
		Concurrency int      `yaml:"concurrency"`
		RunOnStart  *bool    `yaml:"run_on_start"`
	} `yaml:"scan"`
	Indicators struct {
		RSIPeriod        int    `yaml:"rsi_period"`
		MACDFast         int    `yaml:"macd_fast"`
		MACDSlow         int    `yaml:"macd_slow"`
		MACDSignal       int    `yaml:"macd_signal"`
		RSISmoothingSpan int    `yaml:"rsi_smoothing_span"`
		Alignment        string `yaml:"alignment"`
	} `yaml:"indicators"`
	Divergence struct {
		Window         int      `yaml:"window"`
		SlopeThreshold *float64 `yaml:"slope_threshold"`
	} `yaml:"divergence"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load dotenv %s", path)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config")
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config")
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Exchange.APISecret = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.Exchange.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Scan.Cron = v
	}
	if v := os.Getenv("SCAN_TIMEFRAME"); v != "" {
		cfg.Scan.Timeframe = v
	}
	if v := os.Getenv("MAX_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.MaxPrice = &f
		}
	}
	if v := os.Getenv("MIN_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.MinVolume = &f
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.RequestsPerMinute == 0 {
		c.Exchange.RequestsPerMinute = 1200
	}
	if c.Exchange.Timeout == 0 {
		c.Exchange.Timeout = 15 * time.Second
	}
	if c.Scan.Cron == "" {
		c.Scan.Cron = "@every 60s"
	}
	if c.Scan.Timeframe == "" {
		c.Scan.Timeframe = "15m"
	}
	if c.Scan.CandleLimit == 0 {
		c.Scan.CandleLimit = 100
	}
	if c.Scan.QuoteAsset == "" {
		c.Scan.QuoteAsset = "USDT"
	}
	if c.Scan.MaxPrice == nil {
		v := 2.0
		c.Scan.MaxPrice = &v
	}
	if c.Scan.MinVolume == nil {
		v := 150000.0
		c.Scan.MinVolume = &v
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 1
	}
	if c.Scan.RunOnStart == nil {
		v := true
		c.Scan.RunOnStart = &v
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = 12
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = 26
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = 9
	}
	if c.Indicators.RSISmoothingSpan == 0 {
		c.Indicators.RSISmoothingSpan = 5
	}
	if c.Indicators.Alignment == "" {
		c.Indicators.Alignment = string(calculator.AlignTail)
	}
	if c.Divergence.Window == 0 {
		c.Divergence.Window = 15
	}
	if c.Divergence.SlopeThreshold == nil {
		v := 0.0001
		c.Divergence.SlopeThreshold = &v
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Scan.Cron); err != nil {
		return errors.Wrapf(err, "scan.cron %q", c.Scan.Cron)
	}
	if *c.Scan.MaxPrice <= 0 {
		return errors.New("scan.max_price must be positive")
	}
	if *c.Scan.MinVolume < 0 {
		return errors.New("scan.min_volume must not be negative")
	}
	if c.Scan.Concurrency < 1 {
		return errors.New("scan.concurrency must be at least 1")
	}
	if c.Indicators.RSIPeriod < 2 {
		return errors.New("indicators.rsi_period must be at least 2")
	}
	if c.Indicators.MACDFast < 2 || c.Indicators.MACDSignal < 1 {
		return errors.New("indicators.macd_fast must be at least 2 and macd_signal at least 1")
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return errors.New("indicators.macd_fast must be smaller than macd_slow")
	}
	if c.Indicators.RSISmoothingSpan < 1 {
		return errors.New("indicators.rsi_smoothing_span must be at least 1")
	}
	if _, err := calculator.ParseAlignment(c.Indicators.Alignment); err != nil {
		return errors.Wrap(err, "indicators.alignment")
	}
	if c.Divergence.Window < 2 {
		return errors.New("divergence.window must be at least 2")
	}
	if *c.Divergence.SlopeThreshold < 0 {
		return errors.New("divergence.slope_threshold must not be negative")
	}
	warmup := max(calculator.MACDLookback(c.Indicators.MACDSlow, c.Indicators.MACDSignal), c.Indicators.RSIPeriod)
	need := warmup + c.Divergence.Window
	if c.Scan.CandleLimit < need {
		return errors.Errorf("scan.candle_limit must be at least %d to fill the divergence window", need)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// IndicatorParams converts the indicator section for the calculator.
func (c *Config) IndicatorParams() calculator.IndicatorParams {
	align, _ := calculator.ParseAlignment(c.Indicators.Alignment)
	return calculator.IndicatorParams{
		RSIPeriod:     c.Indicators.RSIPeriod,
		MACDFast:      c.Indicators.MACDFast,
		MACDSlow:      c.Indicators.MACDSlow,
		MACDSignal:    c.Indicators.MACDSignal,
		SmoothingSpan: c.Indicators.RSISmoothingSpan,
		Alignment:     align,
	}
}

// StrategyParams converts the divergence section for the classifier.
func (c *Config) StrategyParams() strategy.Params {
	return strategy.Params{
		Window:         c.Divergence.Window,
		SlopeThreshold: *c.Divergence.SlopeThreshold,
	}
}

// TelegramEnabled reports whether Telegram alerts are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Summary renders the effective settings without credentials.
func (c *Config) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cron:            %s\n", c.Scan.Cron)
	fmt.Fprintf(&b, "timeframe:       %s x %d candles\n", c.Scan.Timeframe, c.Scan.CandleLimit)
	fmt.Fprintf(&b, "quote asset:     %s\n", c.Scan.QuoteAsset)
	fmt.Fprintf(&b, "max price:       %g\n", *c.Scan.MaxPrice)
	fmt.Fprintf(&b, "min volume:      %g\n", *c.Scan.MinVolume)
	fmt.Fprintf(&b, "concurrency:     %d\n", c.Scan.Concurrency)
	fmt.Fprintf(&b, "rsi:             %d smoothed over %d (%s)\n",
		c.Indicators.RSIPeriod, c.Indicators.RSISmoothingSpan, c.Indicators.Alignment)
	fmt.Fprintf(&b, "macd:            %d/%d/%d\n", c.Indicators.MACDFast, c.Indicators.MACDSlow, c.Indicators.MACDSignal)
	fmt.Fprintf(&b, "window:          %d\n", c.Divergence.Window)
	threshold := 0.0
	if c.Divergence.SlopeThreshold != nil {
		threshold = *c.Divergence.SlopeThreshold
	}
	fmt.Fprintf(&b, "slope threshold: %g", threshold)
	return b.String()
}
