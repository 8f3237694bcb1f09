package models

type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Trade is a row of the mock trade history.
type Trade struct {
	ID     string      `json:"id"`
	Type   TradeSide   `json:"type"`
	Entry  float64     `json:"entry"`
	SL     float64     `json:"sl"`
	TP     float64     `json:"tp"`
	Volume float64     `json:"volume"`
	Time   string      `json:"time"`
	Status TradeStatus `json:"status"`
	Profit float64     `json:"profit"`
}

// TerminalLog is one line of the EA terminal.
type TerminalLog struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message"`
}
