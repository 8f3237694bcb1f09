package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"FlowShift/internal/domain/models"
)

func TestNormalizeTimeframe(t *testing.T) {
	assert.Equal(t, "M15", NormalizeTimeframe("M15"))
	assert.Equal(t, "H1", NormalizeTimeframe(""))
	assert.Equal(t, "H1", NormalizeTimeframe("h4"))
	assert.False(t, IsValidTimeframe("W1"))
}

func TestNewQuoteTick(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	q := models.Quote{Symbol: "XAUUSD", Bid: 2035.4, Ask: 2035.52, Change: 1.25, Direction: models.DirectionUp}
	tick := NewQuoteTick(q, at)
	assert.Equal(t, "XAUUSD", tick.Symbol)
	assert.Equal(t, int64(1_700_000_000_123), tick.Timestamp)
	assert.Equal(t, models.DirectionUp, tick.Direction)
}
