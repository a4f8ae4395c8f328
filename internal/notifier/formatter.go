package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"CurveSentinel/internal/model"
)

// FormatAlertLine renders the one-line console alert, e.g.
// "[15m] DOGEUSDT | Price: $0.0815 | Volume: 180000 | Divergence: BULLISH_CURVE".
func FormatAlertLine(a model.Alert) string {
	return fmt.Sprintf("[%s] %s | Price: $%.4f | Volume: %.0f | Divergence: %s",
		a.Interval, a.Symbol, a.Price, a.Volume, a.Divergence)
}

// FormatAlertHTML renders an alert for Telegram's HTML parse mode.
func FormatAlertHTML(a model.Alert) string {
	icon := "🟢"
	if a.Divergence == model.BearishCurve {
		icon = "🔴"
	}
	return fmt.Sprintf("%s <b>%s</b> [%s] %s\nPrice: $%.4f | Volume: %.0f\nslopes price=%.6f rsi=%.4f macd=%.6f",
		icon, html.EscapeString(a.Symbol), html.EscapeString(a.Interval), a.Divergence,
		a.Price, a.Volume, a.PriceSlope, a.RSISlope, a.MACDSlope)
}

// FormatScanSummary renders the counters of a finished scan on one line.
func FormatScanSummary(r *model.ScanReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("scan %s finished in %s: listed=%d scanned=%d filtered=%d failed=%d insufficient=%d alerts=%d",
		shortID(r.RunID), r.Duration().Round(100_000_000), r.Listed, r.Scanned, r.Filtered, r.Failed,
		r.Insufficient, len(r.Alerts)))
	if r.Err != "" {
		b.WriteString(" error=" + r.Err)
	}
	return b.String()
}

// FormatTelegramReport renders the alerts of a scan as Telegram messages, split so that
// no message exceeds maxLen bytes.
func FormatTelegramReport(r *model.ScanReport, maxLen int) []string {
	if len(r.Alerts) == 0 {
		return nil
	}
	header := fmt.Sprintf("📈 <b>Curve divergence</b> | %d signal(s) | %s\n",
		len(r.Alerts), r.FinishedAt.UTC().Format("2006-01-02 15:04 MST"))

	var msgs []string
	var b strings.Builder
	b.WriteString(header)
	for _, a := range r.Alerts {
		block := "\n" + FormatAlertHTML(a) + "\n"
		if b.Len()+len(block) > maxLen && b.Len() > len(header) {
			msgs = append(msgs, b.String())
			b.Reset()
			b.WriteString(header)
		}
		b.WriteString(block)
	}
	msgs = append(msgs, b.String())
	return msgs
}

// RenderAlertTable renders alerts as a console table.
func RenderAlertTable(alerts []model.Alert) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Symbol", "TF", "Price", "Volume", "Divergence", "Price slope", "RSI slope", "MACD slope"})
	for _, a := range alerts {
		tw.AppendRow(table.Row{
			a.Symbol,
			a.Interval,
			fmt.Sprintf("%.4f", a.Price),
			fmt.Sprintf("%.0f", a.Volume),
			string(a.Divergence),
			fmt.Sprintf("%+.6f", a.PriceSlope),
			fmt.Sprintf("%+.4f", a.RSISlope),
			fmt.Sprintf("%+.6f", a.MACDSlope),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	tw.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d signal(s)", len(alerts))})
	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
