package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/pulsechat/internal/client/views"
)

// Users reloads the roster and shows the chat screen.
func (a *App) Users(ctx context.Context) error {
	if a.router.Current() != views.RouteChat {
		return a.Navigate(ctx, string(views.RouteChat))
	}
	rctx, cancel := a.requestCtx(ctx)
	a.roster.Load(rctx)
	cancel()
	a.redraw()
	return nil
}

// Open selects a peer and loads the conversation in the background; the
// result is applied by the event loop.
func (a *App) Open(ctx context.Context, peerID string) error {
	if a.router.Current() != views.RouteChat {
		if err := a.Navigate(ctx, string(views.RouteChat)); err != nil {
			return err
		}
		if a.router.Current() != views.RouteChat {
			return nil
		}
	}

	id, err := strconv.ParseInt(peerID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", views.ErrUnknownPeer, peerID)
	}
	peer, err := a.roster.Select(id)
	if err != nil {
		return fmt.Errorf("%w: %d", err, id)
	}

	ticket := a.conv.SelectPeer(peer)
	go a.fetchHistory(ticket)
	a.redraw()
	return nil
}

func (a *App) fetchHistory(t views.Ticket) {
	msgs, err := a.conv.FetchHistory(t)
	select {
	case a.history <- historyResult{ticket: t, msgs: msgs, err: err}:
	case <-t.Done():
	}
}

// Send writes text to the selected peer.
func (a *App) Send(_ context.Context, text string) error {
	if a.router.Current() != views.RouteChat {
		return views.ErrCannotSend
	}
	if _, err := a.conv.Send(text); err != nil {
		if errors.Is(err, views.ErrCannotSend) {
			return err
		}
		a.notices.Error("Message could not be delivered")
	}
	a.redraw()
	return nil
}

// Dismiss removes a notice, or all of them when id is empty.
func (a *App) Dismiss(id string) error {
	if id == "" {
		a.notices.DismissAll()
	} else if !a.notices.Dismiss(id) {
		return fmt.Errorf("no notice %q", id)
	}
	a.redraw()
	return nil
}
