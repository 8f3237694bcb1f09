package simulator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"FlowShift/internal/domain/models"
)

// Bars is the fixed length of every generated series.
const Bars = 40

const (
	buyBar  = 15
	sellBar = 30
)

// Regime groups the generation constants for a family of instruments.
type Regime struct {
	Name        string
	Base        float64
	HalfWidth   float64
	Volatility  float64
	DriftPerBar float64
	Jitter      float64
	Noise       float64
}

var (
	Synthetic = Regime{
		Name:        "synthetic",
		Base:        450000.00,
		HalfWidth:   5000,
		Volatility:  800,
		DriftPerBar: 50,
		Jitter:      200,
		Noise:       100,
	}
	Conventional = Regime{
		Name:        "conventional",
		Base:        2030.50,
		HalfWidth:   15,
		Volatility:  4,
		DriftPerBar: 0.2,
		Jitter:      2,
		Noise:       2,
	}
)

// RegimeFor classifies a symbol. Synthetic indices are named "Vol ...".
func RegimeFor(symbol string) Regime {
	if strings.HasPrefix(symbol, "Vol") {
		return Synthetic
	}
	return Conventional
}

// Recorder is notified of every generated series.
type Recorder interface {
	RecordSeries(regime string)
}

type Option func(*Simulator)

// WithSeed makes generation reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Simulator) { s.rec = r }
}

// Simulator produces synthetic OHLC bars with a drifting channel band.
// It is safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	rec Recorder
}

func New(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// Generate returns a fresh 40-bar series for symbol, oldest first.
// Every call starts over from the regime base price.
func (s *Simulator) Generate(symbol string) []models.PricePoint {
	r := RegimeFor(symbol)

	s.mu.Lock()
	points := generate(r, s.rng)
	s.mu.Unlock()

	if s.rec != nil {
		s.rec.RecordSeries(r.Name)
	}
	return points
}

func generate(r Regime, rng *rand.Rand) []models.PricePoint {
	points := make([]models.PricePoint, 0, Bars)
	cursor := r.Base

	for i := 0; i < Bars; i++ {
		cursor += (rng.Float64() - 0.5) * r.Volatility

		drift := float64(i) * r.DriftPerBar
		upper := r.Base + r.HalfWidth + drift + rng.Float64()*r.Jitter
		lower := r.Base - r.HalfWidth + drift - rng.Float64()*r.Jitter

		noise := rng.Float64() * r.Noise
		open := cursor - noise
		cls := cursor + noise

		p := models.PricePoint{
			Time:          fmt.Sprintf("%d:00", i+9),
			Open:          open,
			High:          max(open, cls) + noise,
			Low:           min(open, cls) - noise,
			Close:         cls,
			UpperChannel:  upper,
			MiddleChannel: (upper + lower) / 2,
			LowerChannel:  lower,
		}
		switch i {
		case buyBar:
			p.Signal = models.SignalBuy
		case sellBar:
			p.Signal = models.SignalSell
		}
		points = append(points, p)
	}
	return points
}
