package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CurveSentinel/internal/notifier"
)

var notifyTelegram bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run a single scan and print the alerts as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(false, notifyTelegram)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.scanner.RunScan(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(report.Alerts) > 0 {
			fmt.Fprintln(out, notifier.RenderAlertTable(report.Alerts))
		}
		fmt.Fprintln(out, notifier.FormatScanSummary(report))
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&notifyTelegram, "notify", false, "also send the alerts to Telegram")
}
