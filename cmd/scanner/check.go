package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"CurveSentinel/internal/scheduler"
)

var checkCmd = &cobra.Command{
	Use:   "check SYMBOL",
	Short: "show the slopes and verdict for one symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.scanner.Check(cmd.Context(), strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderCheck(res))
		return nil
	},
}

func renderCheck(res *scheduler.CheckResult) string {
	e := res.Evaluation
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.SetTitle("%s %s", res.Symbol, res.Interval)
	tw.AppendRows([]table.Row{
		{"price", fmt.Sprintf("%.6f", res.Price)},
		{"volume", fmt.Sprintf("%.0f", res.Volume)},
		{"candles", res.Candles},
		{"usable records", e.Usable},
		{"price slope", fmt.Sprintf("%+.6f", e.PriceSlope)},
		{"rsi slope", fmt.Sprintf("%+.4f", e.RSISlope)},
		{"macd slope", fmt.Sprintf("%+.6f", e.MACDSlope)},
		{"divergence", string(e.Divergence)},
		{"alert", res.Alert},
	})
	if !e.Sufficient {
		tw.AppendFooter(table.Row{"", "not enough complete records for the window"})
	}
	return tw.Render()
}
