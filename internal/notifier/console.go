package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"CurveSentinel/internal/model"
)

// Notifier delivers the alerts of a finished scan.
type Notifier interface {
	Notify(ctx context.Context, report *model.ScanReport) error
}

// ConsoleNotifier prints one alert line per signal.
type ConsoleNotifier struct {
	Out     io.Writer
	bullish *color.Color
	bearish *color.Color
}

// NewConsoleNotifier writes to out; colours are disabled when noColor is set.
func NewConsoleNotifier(out io.Writer, noColor bool) *ConsoleNotifier {
	c := &ConsoleNotifier{
		Out:     out,
		bullish: color.New(color.FgGreen, color.Bold),
		bearish: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		c.bullish.DisableColor()
		c.bearish.DisableColor()
	}
	return c
}

func (c *ConsoleNotifier) Notify(_ context.Context, report *model.ScanReport) error {
	for _, a := range report.Alerts {
		line := FormatAlertLine(a)
		switch a.Divergence {
		case model.BullishCurve:
			line = c.bullish.Sprint(line)
		case model.BearishCurve:
			line = c.bearish.Sprint(line)
		}
		if _, err := fmt.Fprintln(c.Out, line); err != nil {
			return err
		}
	}
	return nil
}
