// Package notify keeps the transient, dismissible notices shown to the user
// after an action succeeds or fails.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

const (
	DefaultTTL = 4 * time.Second
	ErrorTTL   = 8 * time.Second
)

type Notice struct {
	ID        string
	Kind      Kind
	Text      string
	CreatedAt time.Time
	TTL       time.Duration
}

func (n Notice) expired(now time.Time) bool {
	return n.TTL > 0 && now.Sub(n.CreatedAt) >= n.TTL
}

// Center holds pending notices, oldest first.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

func (c *Center) Info(text string) Notice    { return c.push(KindInfo, text, DefaultTTL) }
func (c *Center) Success(text string) Notice { return c.push(KindSuccess, text, DefaultTTL) }
func (c *Center) Error(text string) Notice   { return c.push(KindError, text, ErrorTTL) }

func (c *Center) push(kind Kind, text string, ttl time.Duration) Notice {
	n := Notice{ID: uuid.NewString()[:8], Kind: kind, Text: text, CreatedAt: c.now(), TTL: ttl}
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
	return n
}

// Active drops expired notices and returns the rest.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.notices[:0]
	for _, n := range c.notices {
		if !n.expired(now) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
	return append([]Notice(nil), kept...)
}

// Dismiss removes the notice with the given id and reports whether it existed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) DismissAll() {
	c.mu.Lock()
	c.notices = nil
	c.mu.Unlock()
}
