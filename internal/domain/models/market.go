package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Signal marks a bar with a demo trade marker.
type Signal string

const (
	SignalNone Signal = ""
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
)

// PricePoint is one synthetic bar plus its channel band.
type PricePoint struct {
	Time          string  `json:"time"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	UpperChannel  float64 `json:"upperChannel"`
	MiddleChannel float64 `json:"middleChannel"`
	LowerChannel  float64 `json:"lowerChannel"`
	Signal        Signal  `json:"signal,omitempty"`
}

// Direction of the last quote move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Quote is the live bid/ask state of one instrument.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Change    float64   `json:"change"`
	Direction Direction `json:"direction"`
}

// Spread returns ask minus bid.
func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Digits is the display precision for the symbol.
func (q Quote) Digits() int32 {
	return DisplayDigits(q.Symbol)
}

// BidText formats the bid at display precision.
func (q Quote) BidText() string {
	return decimal.NewFromFloat(q.Bid).StringFixed(q.Digits())
}

// AskText formats the ask at display precision.
func (q Quote) AskText() string {
	return decimal.NewFromFloat(q.Ask).StringFixed(q.Digits())
}

// DisplayDigits: BTC quotes show whole units, EUR pairs five decimals,
// everything else two.
func DisplayDigits(symbol string) int32 {
	switch {
	case strings.Contains(symbol, "BTC"):
		return 0
	case strings.Contains(symbol, "EUR"):
		return 5
	default:
		return 2
	}
}

// InstrumentGroup is one block of the instrument picker.
type InstrumentGroup struct {
	Label   string   `json:"label"`
	Symbols []string `json:"symbols"`
}

// Instruments lists the selectable symbols. Any other string is still accepted.
func Instruments() []InstrumentGroup {
	return []InstrumentGroup{
		{Label: "Synthetic Indices", Symbols: []string{"Vol 10 (1s)", "Vol 25 (1s)", "Vol 50 (1s)", "Vol 75 (1s)", "Vol 100 (1s)"}},
		{Label: "Metals & FX", Symbols: []string{"XAUUSD", "EURUSD", "GBPUSD", "BTCUSD"}},
	}
}

// QuoteView is a quote with its display strings.
type QuoteView struct {
	Quote
	BidText string `json:"bidText"`
	AskText string `json:"askText"`
}

// Views renders quotes for display.
func Views(quotes []Quote) []QuoteView {
	out := make([]QuoteView, len(quotes))
	for i, q := range quotes {
		out[i] = QuoteView{Quote: q, BidText: q.BidText(), AskText: q.AskText()}
	}
	return out
}
