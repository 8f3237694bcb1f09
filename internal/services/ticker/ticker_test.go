package ticker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowShift/internal/domain/models"
)

type fakeRecorder struct {
	ticks atomic.Int64
	mu    sync.Mutex
	bids  map[string]float64
}

func (f *fakeRecorder) RecordTick() { f.ticks.Add(1) }

func (f *fakeRecorder) RecordLastBid(symbol string, bid float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bids == nil {
		f.bids = map[string]float64{}
	}
	f.bids[symbol] = bid
}

type captureListener struct {
	mu    sync.Mutex
	calls int
	last  []models.Quote
}

func (c *captureListener) OnQuotes(_ context.Context, quotes []models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = quotes
}

func TestStepInvariants(t *testing.T) {
	tk := New(WithSeed(11))
	initial := tk.Snapshot()
	require.Len(t, initial, 7)

	for n := 0; n < 200; n++ {
		prev := tk.Snapshot()
		next := tk.Step()
		require.Len(t, next, len(initial))

		for i, q := range next {
			assert.Equal(t, initial[i].Symbol, q.Symbol)
			assert.Equal(t, initial[i].Change, q.Change)
			assert.GreaterOrEqual(t, q.Ask, q.Bid, q.Symbol)
			assert.NotEqual(t, models.DirectionFlat, q.Direction)

			move := q.Bid - prev[i].Bid
			if q.Direction == models.DirectionUp {
				assert.GreaterOrEqual(t, move, 0.0, q.Symbol)
			} else {
				assert.Less(t, move, 0.0, q.Symbol)
			}
		}
	}
}

func TestStepBounds(t *testing.T) {
	tk := New(WithSeed(5))
	prev := tk.Snapshot()
	next := tk.Step()

	for i, q := range next {
		step, _ := stepAndSpread(q.Symbol, prev[i].Bid)
		assert.LessOrEqual(t, abs(q.Bid-prev[i].Bid), step/2, q.Symbol)
	}

	btc := next[5]
	require.Equal(t, "BTCUSD", btc.Symbol)
	assert.LessOrEqual(t, abs(btc.Bid-64140), 5.0)
	assert.InDelta(t, btc.Bid*0.0001, btc.Ask-btc.Bid, 1e-6)

	vol := next[0]
	assert.InDelta(t, vol.Bid*0.00005, vol.Ask-vol.Bid, 1e-6)
}

func TestStepClasses(t *testing.T) {
	step, spread := stepAndSpread("Vol 75 (1s)", 1000)
	assert.InDelta(t, 0.5, step, 1e-9)
	assert.InDelta(t, 0.05, spread, 1e-9)

	step, spread = stepAndSpread("BTCUSD", 1000)
	assert.Equal(t, 10.0, step)
	assert.InDelta(t, 0.1, spread, 1e-9)

	step, spread = stepAndSpread("XAUUSD", 1000)
	assert.InDelta(t, 0.2, step, 1e-9)
	assert.InDelta(t, 0.1, spread, 1e-9)
}

func TestStepSeedReproducible(t *testing.T) {
	a, b := New(WithSeed(8)), New(WithSeed(8))
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Step(), b.Step())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tk := New(WithSeed(1))
	snap := tk.Snapshot()
	snap[0].Bid = -1
	assert.NotEqual(t, -1.0, tk.Snapshot()[0].Bid)
}

func TestSubscriptionDelivery(t *testing.T) {
	rec := &fakeRecorder{}
	lis := &captureListener{}
	tk := New(WithSeed(2), WithBuffer(1), WithRecorder(rec), WithListener(lis))

	sub := tk.Subscribe()
	assert.Equal(t, 1, tk.Subscribers())

	first := tk.Step()
	tk.Step() // dropped: buffer of one is full

	got := <-sub.C
	assert.Equal(t, first, got)
	select {
	case <-sub.C:
		t.Fatal("slow subscriber should have missed the second snapshot")
	default:
	}

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, tk.Subscribers())
	_, open := <-sub.C
	assert.False(t, open)

	tk.Step()
	assert.Equal(t, int64(3), rec.ticks.Load())
	assert.Len(t, rec.bids, 7)
	assert.Equal(t, 3, lis.calls)
}

func TestStartStop(t *testing.T) {
	rec := &fakeRecorder{}
	tk := New(WithSeed(3), WithInterval(time.Second), WithRecorder(rec))

	h, err := tk.Start(context.Background())
	require.NoError(t, err)

	_, err = tk.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.Eventually(t, func() bool { return rec.ticks.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	h.Stop()
	h.Stop()
	<-h.Done()

	h2, err := tk.Start(context.Background())
	require.NoError(t, err)
	h2.Stop()
}

func TestStartStopsOnContextCancel(t *testing.T) {
	tk := New(WithSeed(4))
	ctx, cancel := context.WithCancel(context.Background())

	h, err := tk.Start(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("handle not released after cancel")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
