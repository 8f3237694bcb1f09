package usecase

import (
	"strings"

	"FlowShift/internal/domain/models"
	"FlowShift/internal/services/source"
	"FlowShift/pkg/logger"
)

// BootLines are the terminal lines every process starts with.
func BootLines() []logger.Entry {
	return []logger.Entry{
		{Time: "09:00:01", Kind: logger.KindInfo, Message: "FlowShift MT5 EA version 1.0.0 initialized"},
		{Time: "09:00:02", Kind: logger.KindInfo, Message: "Loading custom indicator: NB_SHI_Channel_true..."},
		{Time: "09:00:05", Kind: logger.KindInfo, Message: "Deriv Bridge active: Streaming Synthetic Indices"},
		{Time: "10:45:12", Kind: logger.KindTrade, Message: "New Signal: Buy Limit @ 2024.50"},
		{Time: "10:45:15", Kind: logger.KindTrade, Message: "Order #12345678 placed successfully"},
	}
}

// MockTrades is the fixed trade history shown on the dashboard.
func MockTrades() []models.Trade {
	return []models.Trade{
		{ID: "1", Type: models.TradeBuy, Entry: 452000.50, SL: 451000.00, TP: 454500.00, Volume: 0.1, Time: "10:45", Status: models.TradeClosed, Profit: 450.20},
		{ID: "2", Type: models.TradeSell, Entry: 453142.10, SL: 454000.00, TP: 451000.00, Volume: 0.1, Time: "14:20", Status: models.TradeOpen, Profit: 120.40},
	}
}

type SeriesGenerator interface {
	Generate(symbol string) []models.PricePoint
}

type QuoteSource interface {
	Snapshot() []models.Quote
}

// Dashboard serves the read-only panels that need no session.
type Dashboard struct {
	sim           SeriesGenerator
	quotes        QuoteSource
	journal       *logger.Journal
	defaultSymbol string
}

func NewDashboard(sim SeriesGenerator, quotes QuoteSource, journal *logger.Journal, defaultSymbol string) *Dashboard {
	return &Dashboard{sim: sim, quotes: quotes, journal: journal, defaultSymbol: defaultSymbol}
}

func (d *Dashboard) Instruments() []models.InstrumentGroup { return models.Instruments() }

// Series generates a fresh series. A blank symbol uses the configured default.
func (d *Dashboard) Series(symbol string) (string, []models.PricePoint) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = d.defaultSymbol
	}
	return symbol, d.sim.Generate(symbol)
}

func (d *Dashboard) Quotes() []models.Quote { return d.quotes.Snapshot() }

func (d *Dashboard) Source() source.Listing { return source.Get() }

func (d *Dashboard) Trades() []models.Trade { return MockTrades() }

// Terminal returns the newest limit journal lines, oldest first.
func (d *Dashboard) Terminal(limit int) []models.TerminalLog {
	entries := d.journal.Entries(limit)
	out := make([]models.TerminalLog, len(entries))
	for i, e := range entries {
		out[i] = models.TerminalLog{ID: e.ID, Time: e.Time, Type: e.Kind, Message: e.Message}
	}
	return out
}
