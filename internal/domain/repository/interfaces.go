package repository

import (
	"context"
	"time"

	"FlowShift/internal/domain/models"
)

// QuoteTick is one published quote update.
type QuoteTick struct {
	Symbol    string           `json:"symbol"`
	Bid       float64          `json:"bid"`
	Ask       float64          `json:"ask"`
	Change    float64          `json:"change"`
	Direction models.Direction `json:"direction"`
	Timestamp int64            `json:"ts"`
}

// NewQuoteTick stamps q with at in milliseconds.
func NewQuoteTick(q models.Quote, at time.Time) *QuoteTick {
	return &QuoteTick{
		Symbol:    q.Symbol,
		Bid:       q.Bid,
		Ask:       q.Ask,
		Change:    q.Change,
		Direction: q.Direction,
		Timestamp: at.UnixMilli(),
	}
}

type QuotePublisher interface {
	Publish(ctx context.Context, t *QuoteTick) error
	PublishBatch(ctx context.Context, ticks []*QuoteTick) error
	Close() error
}

// SessionStore keeps dashboard sessions until they expire.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	// Acquire takes the per-session request guard. It reports false when
	// another request holds it.
	Acquire(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
}

type Metrics interface {
	RecordTick()
	RecordSeries(regime string)
	RecordAdvisor(op, result string)
	RecordQuotePublished(symbol string)
	RecordError(kind string)
	RecordLastBid(symbol string, bid float64)
	RecordLatency(op string, seconds float64)
}
