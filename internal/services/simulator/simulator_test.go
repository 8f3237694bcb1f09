package simulator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowShift/internal/domain/models"
)

type countingRecorder struct {
	mu      sync.Mutex
	regimes map[string]int
}

func (c *countingRecorder) RecordSeries(regime string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regimes == nil {
		c.regimes = map[string]int{}
	}
	c.regimes[regime]++
}

func TestGenerateShape(t *testing.T) {
	sim := New(WithSeed(42))

	for _, symbol := range []string{"Vol 75 (1s)", "XAUUSD", "", "anything at all"} {
		points := sim.Generate(symbol)
		require.Len(t, points, Bars, symbol)

		for i, p := range points {
			assert.LessOrEqual(t, p.Low, min(p.Open, p.Close), "bar %d", i)
			assert.GreaterOrEqual(t, p.High, max(p.Open, p.Close), "bar %d", i)
			assert.LessOrEqual(t, p.LowerChannel, p.MiddleChannel, "bar %d", i)
			assert.LessOrEqual(t, p.MiddleChannel, p.UpperChannel, "bar %d", i)
		}

		assert.Equal(t, "9:00", points[0].Time)
		assert.Equal(t, "48:00", points[39].Time)
	}
}

func TestGenerateSignals(t *testing.T) {
	points := New(WithSeed(1)).Generate("EURUSD")

	for i, p := range points {
		switch i {
		case 15:
			assert.Equal(t, models.SignalBuy, p.Signal)
		case 30:
			assert.Equal(t, models.SignalSell, p.Signal)
		default:
			assert.Equal(t, models.SignalNone, p.Signal, "bar %d", i)
		}
	}
}

func TestGenerateRegimeRanges(t *testing.T) {
	sim := New(WithSeed(7))

	synth := sim.Generate("Vol 100 (1s)")
	// 40 steps of at most 400 each, plus noise.
	for _, p := range synth {
		assert.InDelta(t, 450000, p.Close, 40*400+200)
		assert.Greater(t, p.UpperChannel, 450000.0+5000-1)
	}

	conv := sim.Generate("XAUUSD")
	for _, p := range conv {
		assert.InDelta(t, 2030.5, p.Close, 40*2+4)
	}
}

func TestGenerateFirstBarAndChannelDrift(t *testing.T) {
	cases := []struct {
		symbol string
		regime Regime
	}{
		{"Vol 75 (1s)", Synthetic},
		{"XAUUSD", Conventional},
	}
	for _, tc := range cases {
		r := tc.regime
		for seed := uint64(1); seed <= 200; seed++ {
			points := New(WithSeed(seed)).Generate(tc.symbol)

			// One half-step of volatility plus the noise band.
			assert.InDelta(t, r.Base, points[0].Close, r.Volatility/2+r.Noise, "%s seed %d", tc.symbol, seed)

			// The channel rises by the drift per bar; jitter moves each end by at most Jitter.
			widening := points[Bars-1].UpperChannel - points[0].UpperChannel
			assert.InDelta(t, float64(Bars-1)*r.DriftPerBar, widening, r.Jitter, "%s seed %d", tc.symbol, seed)
			assert.Greater(t, widening, 0.0, "%s seed %d", tc.symbol, seed)
		}
	}
}

func TestRegimeFor(t *testing.T) {
	assert.Equal(t, Synthetic, RegimeFor("Vol 10 (1s)"))
	assert.Equal(t, Synthetic, RegimeFor("Volatility"))
	assert.Equal(t, Conventional, RegimeFor("vol 10"))
	assert.Equal(t, Conventional, RegimeFor("BTCUSD"))
}

func TestGenerateSeedReproducible(t *testing.T) {
	a := New(WithSeed(99)).Generate("Vol 75 (1s)")
	b := New(WithSeed(99)).Generate("Vol 75 (1s)")
	assert.Equal(t, a, b)

	sim := New(WithSeed(99))
	first := sim.Generate("Vol 75 (1s)")
	second := sim.Generate("Vol 75 (1s)")
	assert.NotEqual(t, first, second)
}

func TestGenerateConcurrent(t *testing.T) {
	rec := &countingRecorder{}
	sim := New(WithSeed(3), WithRecorder(rec))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, sim.Generate("Vol 50 (1s)"), Bars)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, rec.regimes["synthetic"])
}
