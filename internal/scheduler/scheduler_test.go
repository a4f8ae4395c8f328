package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveSentinel/internal/calculator"
	"CurveSentinel/internal/collector"
)

func newMockScheduler(t *testing.T) (*Scheduler, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	col := collector.NewCollector(collector.NewMockExchange(), "15m", 100, calculator.DefaultIndicatorParams())
	sc := NewScanner(col, rec, testOptions(1))
	return NewScheduler(context.Background(), sc, "@every 1h", "timeframe: 15m\nmax_price: 2 & up"), rec
}

func TestScheduler_Register(t *testing.T) {
	s, _ := newMockScheduler(t)
	require.NoError(t, s.Register())
	assert.Len(t, s.Cron.Entries(), 1)

	s.Spec = "not a cron"
	assert.Error(t, s.Register())
}

func TestScheduler_StartStop(t *testing.T) {
	s, _ := newMockScheduler(t)
	require.NoError(t, s.Register())
	s.Start()
	s.Stop(time.Second)
}

// gatedExchange holds ListPerpetualSymbols until release is closed.
type gatedExchange struct {
	*collector.MockExchange
	release chan struct{}
}

func (g *gatedExchange) ListPerpetualSymbols(ctx context.Context, quote string) ([]string, error) {
	<-g.release
	return g.MockExchange.ListPerpetualSymbols(ctx, quote)
}

func TestScheduler_StopWaitsForTriggeredScan(t *testing.T) {
	ex := &gatedExchange{MockExchange: collector.NewMockExchange(), release: make(chan struct{})}
	rec := &memRecorder{}
	sc := NewScanner(collector.NewCollector(ex, "15m", 100, calculator.DefaultIndicatorParams()), rec, testOptions(1))
	s := NewScheduler(context.Background(), sc, "@every 1h", "")

	require.True(t, s.TriggerAsync())
	require.Eventually(t, s.Running, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop(5 * time.Second)
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a triggered scan was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(ex.release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the scan finished")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.runs, 1, "the scan run is recorded before Stop returns")
	assert.NotNil(t, s.LastReport())
}

func TestScheduler_HandleCommand(t *testing.T) {
	s, _ := newMockScheduler(t)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/status"), "No scan has finished yet")
	assert.Equal(t, "<pre>timeframe: 15m\nmax_price: 2 &amp; up</pre>", s.HandleCommand(ctx, "/config"))
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/scan")
	assert.Contains(t, s.HandleCommand(ctx, ""), "Available commands")

	assert.Equal(t, "🔎 Scan started.", s.HandleCommand(ctx, "/scan@CurveBot"))
	require.Eventually(t, func() bool { return s.LastReport() != nil && !s.Running() },
		5*time.Second, 10*time.Millisecond)

	status := s.HandleCommand(ctx, "/STATUS")
	assert.Contains(t, status, "listed=4")
	assert.Contains(t, status, "Recent runs:")
}

func TestScheduler_TriggerAsyncWhileRunning(t *testing.T) {
	s, _ := newMockScheduler(t)
	s.Scanner.running.Store(true)
	defer s.Scanner.running.Store(false)

	assert.False(t, s.TriggerAsync())
	assert.Equal(t, "⏳ A scan is already running.", s.HandleCommand(context.Background(), "/scan"))
	assert.Contains(t, s.HandleCommand(context.Background(), "/status"), "scan in progress")
}

func TestToFields(t *testing.T) {
	f := toFields([]interface{}{"entry", 1, "next", "soon", "dangling"})
	assert.Equal(t, 1, f["entry"])
	assert.Equal(t, "soon", f["next"])
	assert.Len(t, f, 2)
}
