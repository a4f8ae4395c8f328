package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"CurveSentinel/internal/scheduler"
	"CurveSentinel/internal/server"
)

const shutdownTimeout = 30 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "scan on the configured cron schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(true, true)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(ctx, a.scanner, a.cfg.Scan.Cron, a.cfg.Summary())
	if err := sched.Register(); err != nil {
		return multierr.Append(err, a.Close())
	}
	sched.Start()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	var srv *server.Server
	if addr := a.cfg.Server.ListenAddr; addr != "" {
		srv = server.New(addr, sched, a.recorder)
		go func() {
			if err := srv.Start(); err != nil {
				log.WithError(err).Error("http server stopped")
				stop()
			}
		}()
	}

	if *a.cfg.Scan.RunOnStart {
		log.Info("run_on_start enabled, scanning now")
		sched.TriggerAsync()
	}

	log.Info("scanner is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")

	sched.Stop(shutdownTimeout)
	var errs error
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = multierr.Append(errs, srv.Shutdown(shutdownCtx))
		cancel()
	}
	errs = multierr.Append(errs, a.Close())
	log.Info("scanner stopped")
	return errs
}
