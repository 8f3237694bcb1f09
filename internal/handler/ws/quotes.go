package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FlowShift/internal/domain/models"
	"FlowShift/internal/services/ticker"
	xlogger "FlowShift/pkg/logger"
)

const (
	writeWait       = 10 * time.Second
	defaultPingWait = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// QuoteStream is the ticker surface the handler needs.
type QuoteStream interface {
	Snapshot() []models.Quote
	Subscribe() *ticker.Subscription
}

// Frame is one message pushed to the browser.
type Frame struct {
	Type   string             `json:"type"`
	Quotes []models.QuoteView `json:"quotes"`
	At     int64              `json:"ts"`
}

// QuotesHandler pushes a quote table to each connected view on every tick.
type QuotesHandler struct {
	stream    QuoteStream
	logger    *xlogger.Logger
	pingEvery time.Duration
}

func NewQuotesHandler(stream QuoteStream, logger *xlogger.Logger) *QuotesHandler {
	return &QuotesHandler{stream: stream, logger: logger, pingEvery: defaultPingWait}
}

func (h *QuotesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/quotes", h.Stream)
}

func (h *QuotesHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	sub := h.stream.Subscribe()
	defer sub.Close()

	// Reads only to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, "snapshot", h.stream.Snapshot()); err != nil {
		return nil
	}

	ping := time.NewTicker(h.pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case quotes, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := h.write(conn, "tick", quotes); err != nil {
				h.logger.Debug("ws write failed", xlogger.Error(err))
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}

func (h *QuotesHandler) write(conn *websocket.Conn, kind string, quotes []models.Quote) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(Frame{Type: kind, Quotes: models.Views(quotes), At: time.Now().UnixMilli()})
}
