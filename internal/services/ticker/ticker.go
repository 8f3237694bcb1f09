package ticker

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"FlowShift/internal/domain/models"
	"FlowShift/pkg/logger"
)

var ErrAlreadyRunning = errors.New("ticker already running")

// InitialQuotes is the watch list every ticker starts from.
func InitialQuotes() []models.Quote {
	return []models.Quote{
		{Symbol: "Vol 75 (1s)", Bid: 452140.25, Ask: 452142.10, Change: 2.45, Direction: models.DirectionUp},
		{Symbol: "Vol 100", Bid: 12450.80, Ask: 12451.20, Change: -1.15, Direction: models.DirectionDown},
		{Symbol: "Vol 10 (1s)", Bid: 6842.15, Ask: 6842.30, Change: 0.35, Direction: models.DirectionUp},
		{Symbol: "Vol 50 (1s)", Bid: 245120.40, Ask: 245123.00, Change: -0.85, Direction: models.DirectionDown},
		{Symbol: "XAUUSD", Bid: 2035.40, Ask: 2035.52, Change: 1.25, Direction: models.DirectionUp},
		{Symbol: "BTCUSD", Bid: 64140, Ask: 64155, Change: 2.40, Direction: models.DirectionUp},
		{Symbol: "EURUSD", Bid: 1.0845, Ask: 1.0846, Change: -0.12, Direction: models.DirectionDown},
	}
}

// Recorder receives per-tick metrics.
type Recorder interface {
	RecordTick()
	RecordLastBid(symbol string, bid float64)
}

// Listener is handed every snapshot right after a tick.
type Listener interface {
	OnQuotes(ctx context.Context, quotes []models.Quote)
}

type Option func(*Ticker)

func WithSeed(seed uint64) Option {
	return func(t *Ticker) {
		t.rng = rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))
	}
}

func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithBuffer sets how many snapshots a subscriber may lag behind.
func WithBuffer(n int) Option {
	return func(t *Ticker) {
		if n > 0 {
			t.buffer = n
		}
	}
}

func WithQuotes(quotes []models.Quote) Option {
	return func(t *Ticker) {
		t.quotes = append([]models.Quote(nil), quotes...)
	}
}

func WithRecorder(r Recorder) Option {
	return func(t *Ticker) { t.rec = r }
}

func WithListener(l Listener) Option {
	return func(t *Ticker) { t.listener = l }
}

func WithLogger(l *logger.Logger) Option {
	return func(t *Ticker) { t.log = l }
}

// Ticker owns the live quote table. It is the only writer; every tick
// replaces the whole table under one lock.
type Ticker struct {
	mu     sync.Mutex
	quotes []models.Quote
	rng    *rand.Rand
	active *Handle

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}

	interval time.Duration
	buffer   int
	rec      Recorder
	listener Listener
	log      *logger.Logger
}

func New(opts ...Option) *Ticker {
	t := &Ticker{
		quotes:   InitialQuotes(),
		subs:     make(map[*Subscription]struct{}),
		interval: time.Second,
		buffer:   16,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		seed := uint64(time.Now().UnixNano())
		t.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return t
}

// Snapshot returns a copy of the current table.
func (t *Ticker) Snapshot() []models.Quote {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Quote(nil), t.quotes...)
}

// Step advances every quote once and returns the new table.
func (t *Ticker) Step() []models.Quote {
	return t.tick(context.Background())
}

func (t *Ticker) tick(ctx context.Context) []models.Quote {
	t.mu.Lock()
	for i := range t.quotes {
		advance(&t.quotes[i], t.rng.Float64())
	}
	snap := append([]models.Quote(nil), t.quotes...)
	t.mu.Unlock()

	if t.rec != nil {
		t.rec.RecordTick()
		for _, q := range snap {
			t.rec.RecordLastBid(q.Symbol, q.Bid)
		}
	}
	t.broadcast(snap)
	if t.listener != nil {
		t.listener.OnQuotes(ctx, snap)
	}
	return snap
}

// stepAndSpread returns the move scale and the ask offset for a quote.
func stepAndSpread(symbol string, bid float64) (step, spread float64) {
	switch {
	case strings.HasPrefix(symbol, "Vol"):
		return bid * 0.0005, bid * 0.00005
	case strings.Contains(symbol, "BTC"):
		return 10, bid * 0.0001
	default:
		return bid * 0.0002, bid * 0.0001
	}
}

// advance applies one random move. Change is left as seeded.
func advance(q *models.Quote, u float64) {
	step, _ := stepAndSpread(q.Symbol, q.Bid)
	move := (u - 0.5) * step
	q.Bid += move
	_, spread := stepAndSpread(q.Symbol, q.Bid)
	q.Ask = q.Bid + spread
	if move >= 0 {
		q.Direction = models.DirectionUp
	} else {
		q.Direction = models.DirectionDown
	}
}

// Start schedules ticks until the handle is stopped or ctx is cancelled.
// Only one schedule may be active at a time.
func (t *Ticker) Start(ctx context.Context) (*Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return nil, ErrAlreadyRunning
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	spec := fmt.Sprintf("@every %s", t.interval)
	if _, err := c.AddFunc(spec, func() { t.tick(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule ticker: %w", err)
	}

	h := &Handle{cron: c, owner: t, done: make(chan struct{})}
	t.active = h
	c.Start()
	t.log.Info("ticker started", logger.String("interval", t.interval.String()), logger.Int("quotes", len(t.quotes)))

	go func() {
		select {
		case <-ctx.Done():
			h.Stop()
		case <-h.done:
		}
	}()
	return h, nil
}

// Handle controls a running schedule.
type Handle struct {
	cron  *cron.Cron
	owner *Ticker
	once  sync.Once
	done  chan struct{}
}

// Stop halts the schedule and waits for a running tick to finish.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() {
		<-h.cron.Stop().Done()
		h.owner.mu.Lock()
		if h.owner.active == h {
			h.owner.active = nil
		}
		h.owner.mu.Unlock()
		close(h.done)
		h.owner.log.Info("ticker stopped")
	})
}

// Done is closed once the schedule has stopped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Subscription delivers snapshots to one consumer.
type Subscription struct {
	C <-chan []models.Quote

	ch    chan []models.Quote
	owner *Ticker
	once  sync.Once
}

// Subscribe registers a consumer. A consumer that falls behind misses
// snapshots instead of slowing the tick down.
func (t *Ticker) Subscribe() *Subscription {
	ch := make(chan []models.Quote, t.buffer)
	s := &Subscription{C: ch, ch: ch, owner: t}
	t.subsMu.Lock()
	t.subs[s] = struct{}{}
	t.subsMu.Unlock()
	return s
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.owner.subsMu.Lock()
		delete(s.owner.subs, s)
		close(s.ch)
		s.owner.subsMu.Unlock()
	})
}

// Subscribers reports the number of open subscriptions.
func (t *Ticker) Subscribers() int {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	return len(t.subs)
}

func (t *Ticker) broadcast(snap []models.Quote) {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	for s := range t.subs {
		select {
		case s.ch <- snap:
		default:
		}
	}
}
