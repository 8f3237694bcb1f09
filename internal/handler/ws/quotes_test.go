package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowShift/internal/services/ticker"
	xlogger "FlowShift/pkg/logger"
)

func TestQuotesStream(t *testing.T) {
	tk := ticker.New(ticker.WithSeed(1))
	e := echo.New()
	NewQuotesHandler(tk, xlogger.Nop()).RegisterRoutes(e)

	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/quotes"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var first Frame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)
	require.Len(t, first.Quotes, 7)
	assert.Equal(t, "452140.25", first.Quotes[0].BidText)
	assert.Equal(t, "1.08450", first.Quotes[6].BidText)

	require.Eventually(t, func() bool { return tk.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	snap := tk.Step()

	var next Frame
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "tick", next.Type)
	assert.Equal(t, snap[0].Bid, next.Quotes[0].Bid)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return tk.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
