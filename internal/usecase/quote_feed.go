package usecase

import (
	"context"
	"time"

	"FlowShift/internal/domain/models"
	drepo "FlowShift/internal/domain/repository"
	mid "FlowShift/internal/middleware"
	"FlowShift/pkg/logger"
)

// QuoteFeed forwards ticker snapshots through the realtime pipeline.
type QuoteFeed struct {
	pipe *mid.RealtimePipeline
	pub  drepo.QuotePublisher
	log  *logger.Logger
	now  func() time.Time
}

func NewQuoteFeed(pipe *mid.RealtimePipeline, pub drepo.QuotePublisher, log *logger.Logger) *QuoteFeed {
	return &QuoteFeed{pipe: pipe, pub: pub, log: log, now: time.Now}
}

// OnQuotes is called by the ticker after every tick.
func (f *QuoteFeed) OnQuotes(ctx context.Context, quotes []models.Quote) {
	at := f.now()
	for _, q := range quotes {
		if err := f.pipe.Process(ctx, drepo.NewQuoteTick(q, at)); err != nil {
			f.log.Debug("quote feed", logger.String("symbol", q.Symbol), logger.Error(err))
		}
	}
}

func (f *QuoteFeed) Start(ctx context.Context) {
	f.pipe.Start(ctx)
}

// Shutdown stops the pipeline and closes the publisher.
func (f *QuoteFeed) Shutdown(_ context.Context) error {
	f.pipe.Stop()
	return f.pub.Close()
}
