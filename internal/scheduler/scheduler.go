package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"CurveSentinel/internal/model"
	"CurveSentinel/internal/notifier"
)

// Scheduler runs the scanner on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner *Scanner
	Spec    string
	// Settings is the text returned by the /config command.
	Settings string
	Ctx      context.Context

	async sync.WaitGroup
}

// NewScheduler creates a Scheduler. Ticks that fire while the previous scan is still
// running are skipped.
func NewScheduler(ctx context.Context, sc *Scanner, spec, settings string) *Scheduler {
	logger := cronLogger{entry: log.WithField("source", "cron")}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Scanner:  sc,
		Spec:     spec,
		Settings: settings,
		Ctx:      ctx,
	}
}

// Register adds the scan job.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(s.Spec, s.scanTask); err != nil {
		return errors.Wrap(err, "register scan task")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.WithField("cron", s.Spec).Info("scheduler started")
}

// Stop stops the cron scheduler and waits up to timeout for scheduled and triggered scans to return.
func (s *Scheduler) Stop(timeout time.Duration) {
	cronDone := s.Cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.async.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("timed out waiting for running scan")
	}
	log.Info("scheduler stopped")
}

// TriggerAsync starts a scan in the background. It returns false when a scan is already running.
func (s *Scheduler) TriggerAsync() bool {
	if s.Scanner.Running() {
		return false
	}
	s.async.Add(1)
	go func() {
		defer s.async.Done()
		s.scanTask()
	}()
	return true
}

// LastReport returns the most recent finished scan.
func (s *Scheduler) LastReport() *model.ScanReport {
	return s.Scanner.LastReport()
}

// Running reports whether a scan is in progress.
func (s *Scheduler) Running() bool {
	return s.Scanner.Running()
}

func (s *Scheduler) scanTask() {
	if _, err := s.Scanner.RunScan(s.Ctx); err != nil {
		if errors.Is(err, ErrScanInProgress) {
			log.Debug("scan skipped, previous scan still running")
			return
		}
		log.WithError(err).Error("scan failed")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		return helpText
	}
	// Group chats address commands as /scan@BotName.
	name, _, _ := strings.Cut(strings.ToLower(cmd[0]), "@")
	switch name {
	case "/scan":
		if !s.TriggerAsync() {
			return "⏳ A scan is already running."
		}
		return "🔎 Scan started."
	case "/status":
		return s.statusText()
	case "/config":
		return "<pre>" + html.EscapeString(s.Settings) + "</pre>"
	default:
		return helpText
	}
}

const helpText = "Available commands:\n/scan - run a scan now\n/status - last scan results\n/config - current settings"

func (s *Scheduler) statusText() string {
	var b strings.Builder
	if s.Running() {
		b.WriteString("⏳ scan in progress\n")
	}
	last := s.LastReport()
	if last == nil {
		b.WriteString("No scan has finished yet.")
		return b.String()
	}
	b.WriteString(notifier.FormatScanSummary(last))
	for _, a := range last.Alerts {
		b.WriteString("\n" + notifier.FormatAlertLine(a))
	}

	runs, err := s.Scanner.Recorder.RecentScanRuns(5)
	if err != nil {
		log.WithError(err).Warn("load recent scan runs")
		return b.String()
	}
	if len(runs) > 0 {
		b.WriteString("\n\nRecent runs:")
		for _, r := range runs {
			b.WriteString(fmt.Sprintf("\n%s listed=%d scanned=%d alerts=%d",
				r.StartedAt.UTC().Format("01-02 15:04:05"), r.Listed, r.Scanned, r.Alerts))
		}
	}
	return b.String()
}

// cronLogger routes cron's internal messages to logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(kv []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
