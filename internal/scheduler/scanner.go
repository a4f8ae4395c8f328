package scheduler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"CurveSentinel/internal/collector"
	"CurveSentinel/internal/metrics"
	"CurveSentinel/internal/model"
	"CurveSentinel/internal/notifier"
	"CurveSentinel/internal/recorder"
	"CurveSentinel/internal/strategy"
)

var log = logrus.WithField("component", "scheduler")

// ErrScanInProgress is returned when a scan is requested while another one is running.
var ErrScanInProgress = errors.New("scan already in progress")

// Options are the market filters and classifier settings applied on every scan.
type Options struct {
	QuoteAsset  string
	MaxPrice    float64
	MinVolume   float64
	Concurrency int
	Strategy    strategy.Params
}

// Scanner runs one pass over all perpetual markets.
type Scanner struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifiers []notifier.Notifier
	Opts      Options

	analyze func([]model.IndicatorRecord, strategy.Params) strategy.Evaluation
	running atomic.Bool
	mu      sync.RWMutex
	last    *model.ScanReport
}

// NewScanner creates a Scanner. A nil recorder disables run statistics.
func NewScanner(col *collector.Collector, rec recorder.Recorder, opts Options, notifiers ...notifier.Notifier) *Scanner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Scanner{
		Collector: col,
		Recorder:  rec,
		Notifiers: notifiers,
		Opts:      opts,
		analyze:   strategy.Analyze,
	}
}

// Running reports whether a scan is currently in progress.
func (s *Scanner) Running() bool {
	return s.running.Load()
}

// LastReport returns the most recent finished scan, or nil before the first one.
func (s *Scanner) LastReport() *model.ScanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

type symbolResult struct {
	outcome model.Outcome
	alert   *model.Alert
}

// RunScan lists the markets and evaluates each symbol. A symbol that fails is skipped;
// only a failure to list the markets fails the scan. Cancelling ctx stops the scan
// between symbols and still produces a report.
func (s *Scanner) RunScan(ctx context.Context) (*model.ScanReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.running.Store(false)

	report := &model.ScanReport{RunID: uuid.NewString(), StartedAt: time.Now()}
	logger := log.WithField("run", report.RunID)
	logger.Info("scan started")

	symbols, err := s.Collector.Exchange.ListPerpetualSymbols(ctx, s.Opts.QuoteAsset)
	if err != nil {
		err = errors.Wrap(err, "list symbols")
		logger.WithError(err).Error("scan aborted")
		report.Err = err.Error()
		s.finish(ctx, report)
		return report, err
	}
	report.Listed = len(symbols)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Opts.Concurrency)
	for _, symbol := range symbols {
		if gctx.Err() != nil {
			break
		}
		symbol := symbol
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := s.scanSymbol(gctx, logger.WithField("symbol", symbol), symbol)
			mu.Lock()
			report.Add(res.outcome, res.alert)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		report.Err = errors.Wrap(ctx.Err(), "scan interrupted").Error()
		logger.Warn("scan interrupted")
	}
	sort.Slice(report.Alerts, func(i, j int) bool { return report.Alerts[i].Symbol < report.Alerts[j].Symbol })
	s.finish(ctx, report)
	return report, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, logger *logrus.Entry, symbol string) symbolResult {
	res := s.evaluateSymbol(ctx, logger, symbol)
	metrics.ObserveOutcome(res.outcome)
	return res
}

func (s *Scanner) evaluateSymbol(ctx context.Context, logger *logrus.Entry, symbol string) symbolResult {
	price, err := s.Collector.LastPrice(ctx, symbol)
	if err != nil {
		logger.WithError(err).Warn("skipping symbol")
		return symbolResult{outcome: model.OutcomeFailed}
	}
	if price > s.Opts.MaxPrice {
		return symbolResult{outcome: model.OutcomeFiltered}
	}

	snap, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		logger.WithError(err).Warn("skipping symbol")
		return symbolResult{outcome: model.OutcomeFailed}
	}

	eval := s.analyze(snap.Records, s.Opts.Strategy)
	if !eval.Sufficient {
		logger.Debugf("insufficient data: %d usable records, window %d", eval.Usable, s.Opts.Strategy.Window)
		return symbolResult{outcome: model.OutcomeInsufficient}
	}
	logger.WithFields(logrus.Fields{
		"price_slope": eval.PriceSlope,
		"rsi_slope":   eval.RSISlope,
		"macd_slope":  eval.MACDSlope,
	}).Debugf("classified %s", eval.Divergence)

	if !eval.Divergence.IsSignal() {
		return symbolResult{outcome: model.OutcomeNoSignal}
	}
	metrics.ObserveDivergence(eval.Divergence)

	volume := snap.Series.LatestVolume()
	if volume <= s.Opts.MinVolume {
		logger.Debugf("%s ignored, volume %.0f below %.0f", eval.Divergence, volume, s.Opts.MinVolume)
		return symbolResult{outcome: model.OutcomeLowVolume}
	}
	return symbolResult{
		outcome: model.OutcomeAlert,
		alert: &model.Alert{
			Symbol:     symbol,
			Interval:   s.Collector.Interval,
			Price:      price,
			Volume:     volume,
			Divergence: eval.Divergence,
			PriceSlope: eval.PriceSlope,
			RSISlope:   eval.RSISlope,
			MACDSlope:  eval.MACDSlope,
			At:         time.Now(),
		},
	}
}

func (s *Scanner) finish(ctx context.Context, report *model.ScanReport) {
	report.FinishedAt = time.Now()

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	metrics.ObserveScan(report)
	if err := s.Recorder.RecordScanRun(recorder.FromReport(report)); err != nil {
		log.WithError(err).WithField("run", report.RunID).Error("record scan run")
	}

	// Alerts from an interrupted scan are still delivered.
	notifyCtx := context.WithoutCancel(ctx)
	for _, n := range s.Notifiers {
		if err := n.Notify(notifyCtx, report); err != nil {
			log.WithError(err).WithField("run", report.RunID).Error("notify")
		}
	}
	log.WithField("run", report.RunID).Info(notifier.FormatScanSummary(report))
}

// CheckResult is the full evaluation of a single symbol.
type CheckResult struct {
	Symbol     string
	Interval   string
	Price      float64
	Volume     float64
	Candles    int
	Evaluation strategy.Evaluation
	// Alert is true when the symbol would be reported by a scan.
	Alert bool
}

// Check evaluates one symbol without the price filter and reports why it would or would not alert.
func (s *Scanner) Check(ctx context.Context, symbol string) (*CheckResult, error) {
	price, err := s.Collector.LastPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	snap, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	eval := s.analyze(snap.Records, s.Opts.Strategy)
	volume := snap.Series.LatestVolume()
	return &CheckResult{
		Symbol:     symbol,
		Interval:   s.Collector.Interval,
		Price:      price,
		Volume:     volume,
		Candles:    len(snap.Series.Bars),
		Evaluation: eval,
		Alert:      eval.Divergence.IsSignal() && price <= s.Opts.MaxPrice && volume > s.Opts.MinVolume,
	}, nil
}
