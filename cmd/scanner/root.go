package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.uber.org/multierr"

	"CurveSentinel/internal/collector"
	"CurveSentinel/internal/config"
	"CurveSentinel/internal/notifier"
	"CurveSentinel/internal/recorder"
	"CurveSentinel/internal/scheduler"
)

var log = logrus.WithField("component", "main")

var opts struct {
	configPath string
	dotenvPath string
	logLevel   string
	mock       bool
	noColor    bool
}

var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "curve divergence scanner for Binance USDT perpetual futures",
	Long: "Scans Binance USDT-margined perpetual futures for curve divergences between price,\n" +
		"smoothed RSI and the MACD histogram.",
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", defaultConfig, "config file")
	pf.StringVar(&opts.dotenvPath, "dotenv", ".env", "dotenv file loaded before the config")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")
	pf.BoolVar(&opts.mock, "mock", false, "use synthetic market data instead of Binance")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable coloured console output")

	rootCmd.AddCommand(runCmd, scanCmd, checkCmd)
}

// app holds the components shared by all commands.
type app struct {
	cfg      *config.Config
	scanner  *scheduler.Scanner
	recorder recorder.Recorder
	telegram *notifier.TelegramNotifier
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(opts.dotenvPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := setupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation")
	}
	return cfg, nil
}

func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logrus.SetLevel(lvl)
	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true, DisableColors: opts.noColor})
	default:
		return errors.Errorf("unknown log format %q", format)
	}
	return nil
}

func newExchange(cfg *config.Config) collector.Exchange {
	if opts.mock {
		return collector.NewMockExchange()
	}
	return collector.NewBinanceExchange(collector.BinanceConfig{
		APIKey:            cfg.Exchange.APIKey,
		APISecret:         cfg.Exchange.APISecret,
		BaseURL:           cfg.Exchange.BaseURL,
		Proxy:             cfg.Proxy,
		RequestsPerMinute: cfg.Exchange.RequestsPerMinute,
		Timeout:           cfg.Exchange.Timeout,
	})
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newApp wires the exchange, collector, recorder and notifiers. withConsole adds the
// one-line alert printer; withTelegram adds Telegram delivery when it is configured.
func newApp(withConsole, withTelegram bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ex := newExchange(cfg)
	log.WithField("exchange", ex.Name()).Info("data source ready")
	col := collector.NewCollector(ex, cfg.Scan.Timeframe, cfg.Scan.CandleLimit, cfg.IndicatorParams())

	a := &app{cfg: cfg, recorder: newRecorder(cfg)}
	var notifiers []notifier.Notifier
	if withConsole {
		notifiers = append(notifiers, notifier.NewConsoleNotifier(os.Stdout, opts.noColor))
	}
	if withTelegram && cfg.TelegramEnabled() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, a.telegram)
	}

	a.scanner = scheduler.NewScanner(col, a.recorder, scheduler.Options{
		QuoteAsset:  cfg.Scan.QuoteAsset,
		MaxPrice:    *cfg.Scan.MaxPrice,
		MinVolume:   *cfg.Scan.MinVolume,
		Concurrency: cfg.Scan.Concurrency,
		Strategy:    cfg.StrategyParams(),
	}, notifiers...)
	return a, nil
}

func (a *app) Close() error {
	var err error
	if a.recorder != nil {
		err = multierr.Append(err, errors.Wrap(a.recorder.Close(), "close recorder"))
	}
	return err
}
