package logger

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Journal kinds, matching the dashboard terminal's line types.
const (
	KindInfo  = "INFO"
	KindTrade = "TRADE"
	KindWarn  = "WARN"
	KindError = "ERROR"
)

// Entry is one terminal journal line.
type Entry struct {
	ID      string    `json:"id"`
	Time    string    `json:"time"`
	Kind    string    `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"-"`
}

// Journal keeps the most recent log lines in a fixed-size ring.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewJournal creates a journal holding at most capacity lines.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 100
	}
	return &Journal{
		entries: make([]Entry, capacity),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Add appends a line, evicting the oldest one when the ring is full.
func (j *Journal) Add(kind, message string) Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.add(kind, message, "")
}

// Seed appends fixed lines, oldest first. A line with a Time label keeps it
// instead of the current clock.
func (j *Journal) Seed(lines []Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, l := range lines {
		j.add(l.Kind, l.Message, l.Time)
	}
}

func (j *Journal) add(kind, message, label string) Entry {
	at := j.now()
	if label == "" {
		label = at.Format("15:04:05")
	}
	e := Entry{
		ID:      ulid.MustNew(ulid.Timestamp(at), j.entropy).String(),
		Time:    label,
		Kind:    kind,
		Message: message,
		At:      at,
	}
	j.entries[j.next] = e
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
	return e
}

// Len reports how many lines are stored.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.full {
		return len(j.entries)
	}
	return j.next
}

// Entries returns up to limit of the newest lines, oldest first.
// A limit <= 0 returns everything stored.
func (j *Journal) Entries(limit int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	var ordered []Entry
	if j.full {
		ordered = make([]Entry, 0, len(j.entries))
		ordered = append(ordered, j.entries[j.next:]...)
		ordered = append(ordered, j.entries[:j.next]...)
	} else {
		ordered = make([]Entry, j.next)
		copy(ordered, j.entries[:j.next])
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}
