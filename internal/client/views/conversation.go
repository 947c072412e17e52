package views

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
	"github.com/google/uuid"
)

type HistoryFetcher interface {
	GetMessages(ctx context.Context, token string, peerID int64) ([]models.Message, error)
}

// Transport is the part of the live connection the conversation writes to.
type Transport interface {
	State() live.State
	Send(frame models.OutboundMessage) error
}

type Phase int

const (
	PhaseNoPeer Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading-history"
	case PhaseReady:
		return "ready"
	default:
		return "no-peer-selected"
	}
}

// Ticket identifies one history request. Results carrying an outdated
// ticket are ignored.
type Ticket struct {
	gen   uint64
	Peer  models.Peer
	token string
	ctx   context.Context
}

// Done is closed once the request is superseded or the view unmounted.
func (t Ticket) Done() <-chan struct{} {
	if t.ctx == nil {
		return nil
	}
	return t.ctx.Done()
}

// Conversation is the message pane for one selected peer.
//
// The list is append-only within a peer: history first, then live events and
// optimistic sends in arrival order. Selecting another peer discards it.
type Conversation struct {
	history   HistoryFetcher
	transport Transport
	sess      Session
	log       logging.Logger

	life       context.Context
	lifeCancel context.CancelFunc
	reqCancel  context.CancelFunc

	phase    Phase
	peer     models.Peer
	messages []models.Message
	gen      uint64

	now   func() time.Time
	newID func() string
}

func NewConversation(history HistoryFetcher, transport Transport, sess Session, log logging.Logger) *Conversation {
	return &Conversation{
		history:   history,
		transport: transport,
		sess:      sess,
		log:       log.With("view", "conversation"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Mount starts the view's lifetime; requests are bound to it.
func (c *Conversation) Mount(ctx context.Context) {
	c.Unmount()
	c.life, c.lifeCancel = context.WithCancel(ctx)
}

// Unmount cancels outstanding requests and discards the list.
func (c *Conversation) Unmount() {
	if c.lifeCancel != nil {
		c.lifeCancel()
	}
	c.life, c.lifeCancel, c.reqCancel = nil, nil, nil
	c.gen++
	c.phase = PhaseNoPeer
	c.peer = models.Peer{}
	c.messages = nil
}

func (c *Conversation) Mounted() bool {
	return c.life != nil
}

func (c *Conversation) Phase() Phase {
	return c.phase
}

func (c *Conversation) Peer() (models.Peer, bool) {
	return c.peer, c.phase != PhaseNoPeer
}

func (c *Conversation) Messages() []models.Message {
	return append([]models.Message(nil), c.messages...)
}

// SelectPeer switches to peer from any state: the current list is dropped,
// the previous history request is cancelled and a ticket for the new one is
// returned. Pass the ticket to FetchHistory and then ApplyHistory.
func (c *Conversation) SelectPeer(peer models.Peer) Ticket {
	if c.reqCancel != nil {
		c.reqCancel()
	}

	parent := c.life
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	c.reqCancel = cancel

	c.gen++
	c.phase = PhaseLoading
	c.peer = peer
	c.messages = nil

	return Ticket{gen: c.gen, Peer: peer, token: c.sess.Current().Token, ctx: ctx}
}

// FetchHistory performs the request described by t. It touches no view
// state and may run on another goroutine.
func (c *Conversation) FetchHistory(t Ticket) ([]models.Message, error) {
	return c.history.GetMessages(t.ctx, t.token, t.Peer.ID)
}

// ApplyHistory moves to ready with msgs, or with an empty list when err is
// set. It reports false and changes nothing when t is stale or the view is
// not mounted.
func (c *Conversation) ApplyHistory(t Ticket, msgs []models.Message, err error) bool {
	if !c.Mounted() || t.gen != c.gen {
		return false
	}
	c.phase = PhaseReady
	if err != nil {
		c.log.Warn(t.ctx, "history unavailable", "peer_id", t.Peer.ID, "error", err)
		c.messages = nil
		return true
	}
	c.messages = append([]models.Message(nil), msgs...)
	return true
}

// Open selects peer and loads its history synchronously.
func (c *Conversation) Open(peer models.Peer) {
	t := c.SelectPeer(peer)
	msgs, err := c.FetchHistory(t)
	c.ApplyHistory(t, msgs, err)
}

// Receive appends an inbound live message if it belongs to the selected
// conversation and reports whether it did.
func (c *Conversation) Receive(msg models.Message) bool {
	if c.phase == PhaseNoPeer {
		return false
	}
	self := c.sess.Current().UserID()
	if !msg.Involves(self, c.peer.ID) {
		return false
	}
	c.messages = append(c.messages, msg)
	return true
}

// CanSend reports whether text may be sent right now.
func (c *Conversation) CanSend(text string) bool {
	return c.transport.State() == live.StateOpen &&
		c.phase != PhaseNoPeer &&
		c.sess.Current().Authenticated() &&
		strings.TrimSpace(text) != ""
}

// Send appends the message optimistically and writes it to the transport.
// A transport failure is returned but the appended message stays.
func (c *Conversation) Send(text string) (models.Message, error) {
	if !c.CanSend(text) {
		return models.Message{}, ErrCannotSend
	}

	content := strings.TrimSpace(text)
	msg := models.Message{
		SenderID:  c.sess.Current().UserID(),
		To:        c.peer.ID,
		Content:   content,
		CreatedAt: c.now().UTC(),
		LocalID:   c.newID(),
	}
	c.messages = append(c.messages, msg)

	if err := c.transport.Send(models.OutboundMessage{To: c.peer.ID, Content: content}); err != nil {
		c.log.Error(context.Background(), "send failed", "peer_id", c.peer.ID, "error", err)
		return msg, err
	}
	return msg, nil
}
