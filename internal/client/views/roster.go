package views

import (
	"context"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
)

type PeerLister interface {
	ListUsers(ctx context.Context, token string) ([]models.Peer, error)
}

// Roster is the list of users the signed-in user can write to.
type Roster struct {
	api      PeerLister
	sess     Session
	log      logging.Logger
	peers    []models.Peer
	selected int64
}

func NewRoster(api PeerLister, sess Session, log logging.Logger) *Roster {
	return &Roster{api: api, sess: sess, log: log.With("view", "roster")}
}

// Load fetches the peer list. A failure leaves the roster empty.
func (r *Roster) Load(ctx context.Context) {
	r.selected = 0
	peers, err := r.api.ListUsers(ctx, r.sess.Current().Token)
	if err != nil {
		r.log.Warn(ctx, "peer list unavailable", "error", err)
		r.peers = nil
		return
	}
	r.peers = peers
}

// Peers returns the loaded peers without the signed-in user.
func (r *Roster) Peers() []models.Peer {
	self := r.sess.Current().UserID()
	out := make([]models.Peer, 0, len(r.peers))
	for _, p := range r.peers {
		if p.ID != self {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) Find(id int64) (models.Peer, bool) {
	for _, p := range r.peers {
		if p.ID == id {
			return p, true
		}
	}
	return models.Peer{}, false
}

// Select marks the peer with the given id as selected.
func (r *Roster) Select(id int64) (models.Peer, error) {
	for _, p := range r.Peers() {
		if p.ID == id {
			r.selected = id
			return p, nil
		}
	}
	return models.Peer{}, ErrUnknownPeer
}

func (r *Roster) Selected() (models.Peer, bool) {
	if r.selected == 0 {
		return models.Peer{}, false
	}
	return r.Find(r.selected)
}

// Reset forgets the peers and the selection.
func (r *Roster) Reset() {
	r.peers = nil
	r.selected = 0
}
