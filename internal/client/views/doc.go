// Package views holds the state of each screen of the client, independent
// of how it is drawn: the route table, the roster, the conversation with
// one peer and the profile editor.
//
// Views receive their collaborators (REST client, session, transport)
// explicitly at construction. None of them is safe for concurrent use;
// the CLI drives them from a single event loop.
package views

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/session"
)

var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrUnknownPeer  = errors.New("unknown peer")
	ErrCannotSend   = errors.New("cannot send: transport closed, no peer selected or empty message")
	ErrNotEditing   = errors.New("profile is not in edit mode")
	ErrUnknownField = errors.New("unknown profile field")
	ErrInvalidColor = errors.New("theme colour must look like #rrggbb")
	ErrNotLoaded    = errors.New("profile not loaded")
)

// Session is the view of the session store the screens depend on.
type Session interface {
	Current() session.State
	UpdateUser(ctx context.Context, fn func(models.Profile) models.Profile) error
}
