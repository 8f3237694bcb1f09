package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a session's strategy chat.
type ChatMessage struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Session is the state one dashboard view holds. It is never written to
// durable storage; it expires with its TTL.
type Session struct {
	ID        string        `json:"id"`
	Config    EAConfig      `json:"config"`
	Series    []PricePoint  `json:"series"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
}
