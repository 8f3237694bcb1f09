package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayDigits(t *testing.T) {
	assert.Equal(t, int32(0), DisplayDigits("BTCUSD"))
	assert.Equal(t, int32(5), DisplayDigits("EURUSD"))
	assert.Equal(t, int32(2), DisplayDigits("Vol 75 (1s)"))
	assert.Equal(t, int32(2), DisplayDigits("XAUUSD"))
}

func TestQuoteText(t *testing.T) {
	q := Quote{Symbol: "EURUSD", Bid: 1.0845, Ask: 1.0846}
	assert.Equal(t, "1.08450", q.BidText())
	assert.Equal(t, "1.08460", q.AskText())
	assert.InDelta(t, 0.0001, q.Spread(), 1e-9)

	btc := Quote{Symbol: "BTCUSD", Bid: 64140.4, Ask: 64155.6}
	assert.Equal(t, "64140", btc.BidText())
	assert.Equal(t, "64156", btc.AskText())
}

func TestDefaultEAConfig(t *testing.T) {
	c := DefaultEAConfig()
	assert.Equal(t, 1.0, c.RiskPercent)
	assert.Equal(t, 777, c.MagicNumber)
	assert.Equal(t, 10, c.Slippage)
	assert.Equal(t, "Vol 75 (1s)", c.Symbol)
	assert.Equal(t, "H1", c.Timeframe)
}

func TestUpdateConfigRequestConfig(t *testing.T) {
	zero := 0
	symbol := "XAUUSD"
	got := UpdateConfigRequest{MagicNumber: &zero, Slippage: &zero, Symbol: &symbol}.Config()

	want := DefaultEAConfig()
	want.MagicNumber = 0
	want.Slippage = 0
	want.Symbol = "XAUUSD"
	assert.Equal(t, want, got)

	assert.Equal(t, DefaultEAConfig(), UpdateConfigRequest{}.Config())
}
