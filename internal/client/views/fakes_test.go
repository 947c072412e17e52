package views

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/session"
)

type fakeSession struct {
	state     session.State
	updateErr error
	updates   int
}

func signedIn(id int64, username string) *fakeSession {
	return &fakeSession{state: session.State{User: &models.Profile{ID: id, Username: username}, Token: "abc123"}}
}

func (f *fakeSession) Current() session.State { return f.state }

func (f *fakeSession) UpdateUser(_ context.Context, fn func(models.Profile) models.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.state.User == nil {
		return session.ErrNoUser
	}
	next := fn(*f.state.User)
	f.state.User = &next
	f.updates++
	return nil
}

type fakeAPI struct {
	peers    []models.Peer
	peersErr error

	history    map[int64][]models.Message
	historyErr error
	// block, when set, makes GetMessages wait for it or for ctx cancellation.
	block chan struct{}

	profile    models.Profile
	profileErr error
	updateErr  error

	lastToken  string
	lastPeerID int64
	lastDraft  models.ProfileDraft
	updates    int
}

func (f *fakeAPI) ListUsers(_ context.Context, token string) ([]models.Peer, error) {
	f.lastToken = token
	return f.peers, f.peersErr
}

func (f *fakeAPI) GetMessages(ctx context.Context, token string, peerID int64) ([]models.Message, error) {
	f.lastToken, f.lastPeerID = token, peerID
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[peerID], nil
}

func (f *fakeAPI) GetProfile(_ context.Context, token string) (models.Profile, error) {
	f.lastToken = token
	return f.profile, f.profileErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, token string, draft models.ProfileDraft) error {
	f.lastToken = token
	f.lastDraft = draft
	f.updates++
	return f.updateErr
}

type fakeTransport struct {
	state   live.State
	sent    []models.OutboundMessage
	sendErr error
}

func (f *fakeTransport) State() live.State { return f.state }

func (f *fakeTransport) Send(frame models.OutboundMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	if f.state != live.StateOpen {
		return live.ErrNotOpen
	}
	f.sent = append(f.sent, frame)
	return nil
}

var errBoom = errors.New("boom")
