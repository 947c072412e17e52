package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
)

var ErrNotOpen = errors.New("live transport is not open")

const eventBuffer = 64

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Key identifies the session a connection belongs to.
type Key struct {
	UserID int64
	Token  string
}

func (k Key) valid() bool {
	return k.UserID != 0 && k.Token != ""
}

type EventKind int

const (
	EventMessage EventKind = iota
	EventClosed
)

type Event struct {
	Kind    EventKind
	Key     Key
	Message models.Message
	Err     error
}

type connection struct {
	key   Key
	conn  Conn
	state State
	done  chan struct{}
}

type Manager struct {
	mu      sync.Mutex
	baseURL string
	dialer  Dialer
	log     logging.Logger
	events  chan Event
	cur     *connection
}

func NewManager(baseURL string, dialer Dialer, log logging.Logger) *Manager {
	return &Manager{
		baseURL: baseURL,
		dialer:  dialer,
		log:     log.With("component", "live"),
		events:  make(chan Event, eventBuffer),
	}
}

// Events delivers inbound messages and close notifications of the current
// connection.
func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return StateIdle
	}
	return m.cur.state
}

// Key returns the key of the current connection, or the zero Key.
func (m *Manager) Key() Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return Key{}
	}
	return m.cur.key
}

// Ensure makes sure exactly one connection exists for key. A live connection
// with the same key is kept; anything else is closed before dialing. An
// invalid key (no user or no token) only closes the current connection.
func (m *Manager) Ensure(ctx context.Context, key Key) error {
	m.mu.Lock()
	if m.cur != nil && m.cur.key == key && m.cur.state != StateClosed {
		m.mu.Unlock()
		return nil
	}
	m.closeLocked()
	if !key.valid() {
		m.mu.Unlock()
		return nil
	}
	c := &connection{key: key, state: StateConnecting, done: make(chan struct{})}
	m.cur = c
	m.mu.Unlock()

	rawURL, err := endpoint(m.baseURL, key.Token)
	if err == nil {
		var conn Conn
		conn, err = m.dialer.Dial(ctx, rawURL)
		if err == nil {
			return m.attach(ctx, c, conn)
		}
	}

	m.mu.Lock()
	if m.cur == c {
		c.state = StateClosed
	}
	m.mu.Unlock()
	m.log.Error(ctx, "live transport connect failed", "user_id", key.UserID, "error", err)
	return err
}

func (m *Manager) attach(ctx context.Context, c *connection, conn Conn) error {
	m.mu.Lock()
	if m.cur != c {
		m.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.state = StateOpen
	m.mu.Unlock()

	m.log.Info(ctx, "live transport open", "user_id", c.key.UserID)
	// ctx only bounds the dial; the reader lives until Close.
	go m.readLoop(context.WithoutCancel(ctx), c)
	return nil
}

// Send writes frame to the current connection.
func (m *Manager) Send(frame models.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil || m.cur.state != StateOpen {
		return ErrNotOpen
	}
	return m.cur.conn.WriteJSON(frame)
}

// Close releases the current connection. It is safe to call repeatedly.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.cur == nil {
		return
	}
	c := m.cur
	m.cur = nil
	c.state = StateClosed
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (m *Manager) readLoop(ctx context.Context, c *connection) {
	log := m.log.With("user_id", c.key.UserID)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if m.markClosed(c) {
				log.Warn(ctx, "live transport closed", "error", err)
				m.emit(c, Event{Kind: EventClosed, Key: c.key, Err: err})
			}
			return
		}

		var msg models.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn(ctx, "dropping undecodable frame", "error", err)
			continue
		}
		log.Debug(ctx, "frame received", "sender_id", msg.SenderID, "to", msg.To)
		m.emit(c, Event{Kind: EventMessage, Key: c.key, Message: msg})
	}
}

// markClosed flips c to closed if it is still the current connection.
func (m *Manager) markClosed(c *connection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != c {
		return false
	}
	c.state = StateClosed
	return true
}

func (m *Manager) emit(c *connection, ev Event) {
	m.mu.Lock()
	current := m.cur == c
	m.mu.Unlock()
	if !current {
		return
	}
	select {
	case m.events <- ev:
	case <-c.done:
	}
}
