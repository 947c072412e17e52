package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
)

// Navigate switches screens. The screen being left is unmounted and the new
// one mounted; navigating to the chat it is already on only reconnects the
// live transport.
func (a *App) Navigate(ctx context.Context, path string) error {
	from, to, err := a.router.Navigate(path, a.authenticated())
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	switch {
	case from != to:
		a.leave(from)
		a.enter(ctx, to)
	case to == views.RouteChat:
		a.connect(ctx)
	}
	a.redraw()
	return nil
}

func (a *App) leave(r views.Route) {
	switch r {
	case views.RouteChat:
		a.conv.Unmount()
		a.roster.Reset()
		a.live.Close()
	case views.RouteProfile:
		a.profile.Unmount()
	}
}

func (a *App) enter(ctx context.Context, r views.Route) {
	switch r {
	case views.RouteChat:
		a.conv.Mount(ctx)
		a.connect(ctx)
		rctx, cancel := a.requestCtx(ctx)
		a.roster.Load(rctx)
		cancel()

	case views.RouteProfile:
		rctx, cancel := a.requestCtx(ctx)
		defer cancel()
		if err := a.profile.Mount(rctx); err != nil {
			a.log.Warn(ctx, "profile unavailable", "error", err)
			a.notices.Error("Failed to fetch profile")
		}
	}
}

// connect makes sure the live transport belongs to the current session.
func (a *App) connect(ctx context.Context) {
	if a.live.State() != live.StateOpen && !a.dials.Allow() {
		a.notices.Error("Reconnecting too fast, try again in a moment.")
		return
	}

	st := a.session.Current()
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.live.Ensure(rctx, live.Key{UserID: st.UserID(), Token: st.Token}); err != nil {
		a.notices.Error("Live connection unavailable. Use 'go /chat' to retry.")
	}
}

// redraw prints the current screen.
func (a *App) redraw() {
	st := a.session.Current()
	theme := ""
	if st.User != nil {
		theme = st.User.ThemeColor
	}
	r := newRenderer(theme)
	route := a.router.Current()

	var parts []string
	if views.ShowHeader(route) {
		parts = append(parts, r.Header(st.User))
	}
	if n := r.Notices(a.notices.Active()); n != "" {
		parts = append(parts, n)
	}

	switch route {
	case views.RouteLogin:
		parts = append(parts, "Sign in with 'login'. No account yet? Use 'register'.")
	case views.RouteRegister:
		parts = append(parts, "Create an account with 'register'. Already registered? Use 'go /login'.")
	case views.RouteProfile:
		user := st.User
		if !a.profile.Loaded() {
			user = nil
		}
		parts = append(parts, r.Profile(user, a.profile.Draft(), a.profile.Editing()))
	case views.RouteChat:
		peer, _ := a.conv.Peer()
		parts = append(parts,
			r.Roster(a.roster.Peers(), peer.ID),
			r.Conversation(a.conv.Phase(), peer, a.conv.Messages(), st.UserID(), a.live.State()))
	}

	fmt.Fprintln(a.out, strings.Join(parts, "\n\n"))
}
