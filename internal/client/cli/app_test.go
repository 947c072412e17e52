package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/notify"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func noticeTexts(c *notify.Center) []string {
	var out []string
	for _, n := range c.Active() {
		out = append(out, n.Text)
	}
	return out
}

func TestApp_LoginOpensChat(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	assert.Equal(t, views.RouteChat, ta.router.Current())
	assert.True(t, ta.authenticated())
	assert.Equal(t, []live.Key{{UserID: 1, Token: "tok"}}, ta.tr.ensured)
	assert.Equal(t, []models.Peer{{ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}}, ta.roster.Peers())
	assert.Contains(t, ta.out.String(), "PulseChat")
}

func TestApp_LoginFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *fakeAPI)
		want  string
	}{
		{name: "rejected", setup: func(a *fakeAPI) { a.loginErr = errBoom }, want: "Login failed"},
		{name: "no token", setup: func(a *fakeAPI) { a.token = "" }, want: "No token received"},
		{name: "profile unavailable", setup: func(a *fakeAPI) { a.token = "unknown" }, want: "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "")
			tt.setup(ta.api)
			stubInputs(t, "alice", "secret")

			require.NoError(t, ta.Login(context.Background()))

			assert.Equal(t, views.RouteLogin, ta.router.Current())
			assert.False(t, ta.authenticated())
			assert.Contains(t, noticeTexts(ta.notices), tt.want)
			assert.Empty(t, ta.tr.ensured)
		})
	}
}

func TestApp_LoginMissingCredentials(t *testing.T) {
	ta := newTestApp(t, "")
	stubInputs(t, "alice", "")

	require.Error(t, ta.Login(context.Background()))
	assert.False(t, ta.authenticated())
}

func TestApp_Register(t *testing.T) {
	ta := newTestApp(t, "")
	stubInputs(t, "dave", "dave@example.com", "pw")

	require.NoError(t, ta.Register(context.Background()))

	assert.Equal(t, "dave", ta.api.lastRegUser)
	assert.Equal(t, views.RouteLogin, ta.router.Current())
	assert.False(t, ta.authenticated(), "registering does not sign in")
	assert.Contains(t, noticeTexts(ta.notices), "Registered successfully!")
}

func TestApp_RegisterFailureStaysOnForm(t *testing.T) {
	ta := newTestApp(t, "")
	ta.api.regErr = errBoom
	stubInputs(t, "dave", "dave@example.com", "pw")

	require.NoError(t, ta.Register(context.Background()))

	assert.Equal(t, views.RouteRegister, ta.router.Current())
	assert.Contains(t, noticeTexts(ta.notices), "Registration failed")
}

func TestApp_NavigateGuards(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, ta.Navigate(ctx, "/chat"))
	assert.Equal(t, views.RouteLogin, ta.router.Current())
	require.NoError(t, ta.Navigate(ctx, "/profile"))
	assert.Equal(t, views.RouteLogin, ta.router.Current())
	assert.Empty(t, ta.tr.ensured, "no connection without a session")

	require.ErrorIs(t, ta.Navigate(ctx, "/nowhere"), views.ErrUnknownRoute)

	require.NoError(t, ta.Navigate(ctx, "/"))
	assert.Equal(t, views.RouteLogin, ta.router.Current())
}

func TestApp_HeaderHiddenOnLogin(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.Navigate(context.Background(), "/login"))
	assert.NotContains(t, ta.out.String(), "PulseChat")

	ta.out.Reset()
	require.NoError(t, ta.Navigate(context.Background(), "/register"))
	assert.NotContains(t, ta.out.String(), "PulseChat")
}

func TestApp_OpenLoadsHistoryInBackground(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	require.NoError(t, ta.Open(context.Background(), "2"))
	assert.Equal(t, views.PhaseLoading, ta.conv.Phase())
	assert.True(t, ta.chatOpen())

	require.True(t, ta.awaitHistory(t))

	assert.Equal(t, views.PhaseReady, ta.conv.Phase())
	msgs := ta.conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.False(t, msgs[0].IsMine(1))
}

func TestApp_OpenRejectsSelfAndUnknown(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	require.ErrorIs(t, ta.Open(context.Background(), "1"), views.ErrUnknownPeer)
	require.ErrorIs(t, ta.Open(context.Background(), "99"), views.ErrUnknownPeer)
	require.ErrorIs(t, ta.Open(context.Background(), "bob"), views.ErrUnknownPeer)
	assert.False(t, ta.chatOpen())
}

func TestApp_SendAndEcho(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	require.NoError(t, ta.Open(context.Background(), "2"))
	ta.awaitHistory(t)

	require.NoError(t, ta.Send(context.Background(), "hello"))
	assert.Equal(t, []models.OutboundMessage{{To: 2, Content: "hello"}}, ta.tr.sent)

	ta.handleEvent(context.Background(), live.Event{
		Kind:    live.EventMessage,
		Message: models.Message{SenderID: 1, To: 2, Content: "hello"},
	})

	msgs := ta.conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "hello", msgs[2].Content)
}

func TestApp_SendWhitespaceRejected(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	require.NoError(t, ta.Open(context.Background(), "2"))
	ta.awaitHistory(t)

	require.ErrorIs(t, ta.Send(context.Background(), "   "), views.ErrCannotSend)
	assert.Empty(t, ta.tr.sent)
	assert.Len(t, ta.conv.Messages(), 1)
}

func TestApp_EventsForOtherPeersAreNotRendered(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	require.NoError(t, ta.Open(context.Background(), "2"))
	ta.awaitHistory(t)

	ta.handleEvent(context.Background(), live.Event{
		Kind:    live.EventMessage,
		Message: models.Message{SenderID: 3, To: 1, Content: "psst"},
	})

	assert.Len(t, ta.conv.Messages(), 1)
}

func TestApp_ClosedEventNotifies(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	ta.handleEvent(context.Background(), live.Event{Kind: live.EventClosed, Err: errBoom})

	assert.True(t, ta.authenticated(), "transport errors never touch the session")
	require.Len(t, ta.notices.Active(), 1)
	assert.Equal(t, notify.KindError, ta.notices.Active()[0].Kind)
}

func TestApp_LeavingChatReleasesTransport(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	require.NoError(t, ta.Open(context.Background(), "2"))
	ta.awaitHistory(t)

	require.NoError(t, ta.Navigate(context.Background(), "/profile"))

	assert.Equal(t, 1, ta.tr.closed)
	assert.False(t, ta.conv.Mounted())
	assert.Empty(t, ta.conv.Messages())

	require.NoError(t, ta.Navigate(context.Background(), "/chat"))
	assert.Len(t, ta.tr.ensured, 2)
	assert.Equal(t, views.PhaseNoPeer, ta.conv.Phase())
}

func TestApp_ReopenChatReconnects(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ta.tr.state = live.StateClosed

	require.NoError(t, ta.Navigate(context.Background(), "/chat"))

	assert.Len(t, ta.tr.ensured, 2)
	assert.Equal(t, live.StateOpen, ta.tr.State())
}

func TestApp_ReconnectsAreThrottled(t *testing.T) {
	ta := newTestApp(t, "")
	ta.dials = rate.NewLimiter(rate.Every(time.Hour), 2)
	ta.login(t)

	ta.tr.state = live.StateClosed
	require.NoError(t, ta.Navigate(context.Background(), "/chat"))
	assert.Len(t, ta.tr.ensured, 2)

	ta.tr.state = live.StateClosed
	require.NoError(t, ta.Navigate(context.Background(), "/chat"))
	assert.Len(t, ta.tr.ensured, 2, "third dial within the window is refused")
	assert.Contains(t, noticeTexts(ta.notices), "Reconnecting too fast, try again in a moment.")

	ta.tr.state = live.StateOpen
	require.NoError(t, ta.Navigate(context.Background(), "/chat"))
	assert.Len(t, ta.tr.ensured, 3, "an open connection is only checked, never throttled")
}

func TestApp_Logout(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)

	require.NoError(t, ta.Logout(context.Background()))

	assert.False(t, ta.authenticated())
	assert.Empty(t, ta.session.Current().Token)
	assert.Equal(t, views.RouteLogin, ta.router.Current())
	assert.GreaterOrEqual(t, ta.tr.closed, 1)

	require.NoError(t, ta.Logout(context.Background()), "logout is idempotent")
}

func TestApp_ProfileFlow(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ctx := context.Background()

	require.ErrorIs(t, ta.Edit(), errNotOnProfile)

	require.NoError(t, ta.Profile(ctx))
	assert.Equal(t, views.RouteProfile, ta.router.Current())
	assert.Equal(t, "#10b981", ta.profile.Draft().ThemeColor)

	require.ErrorIs(t, ta.Set("bio", "x"), views.ErrNotEditing)
	require.NoError(t, ta.Edit())
	require.NoError(t, ta.Set("bio", "gopher"))
	require.ErrorIs(t, ta.Set("theme_color", "red"), views.ErrInvalidColor)

	ta.api.updateErr = errBoom
	require.NoError(t, ta.Save(ctx))
	assert.True(t, ta.profile.Editing())
	assert.Equal(t, "gopher", ta.profile.Draft().Bio)
	assert.Contains(t, noticeTexts(ta.notices), "Failed to update profile")

	ta.api.updateErr = nil
	require.NoError(t, ta.Save(ctx))
	assert.False(t, ta.profile.Editing())
	assert.Equal(t, "gopher", ta.api.lastDraft.Bio)
	assert.Equal(t, "gopher", ta.session.Current().User.Bio)
	assert.Contains(t, noticeTexts(ta.notices), "Profile updated")
}

func TestApp_ProfileCancel(t *testing.T) {
	ta := newTestApp(t, "")
	ta.login(t)
	ctx := context.Background()

	require.NoError(t, ta.Profile(ctx))
	require.NoError(t, ta.Edit())
	require.NoError(t, ta.Set("location", "Mars"))
	require.NoError(t, ta.Cancel())

	assert.False(t, ta.profile.Editing())
	assert.Empty(t, ta.profile.Draft().Location)
}

func TestApp_Dismiss(t *testing.T) {
	ta := newTestApp(t, "")
	n := ta.notices.Info("one")
	ta.notices.Info("two")

	require.NoError(t, ta.Dismiss(n.ID))
	assert.Equal(t, []string{"two"}, noticeTexts(ta.notices))
	require.Error(t, ta.Dismiss("missing"))

	require.NoError(t, ta.Dismiss(""))
	assert.Empty(t, ta.notices.Active())
}

func TestApp_RunScripted(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t, "help\ngo /chat\nexit\nusers\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ta.Run(ctx))

	out := ta.out.String()
	assert.Contains(t, out, "Welcome to PulseChat")
	assert.Equal(t, views.RouteLogin, ta.router.Current())
	assert.Equal(t, 3, strings.Count(out, "pulsechat ("), "one prompt per line up to exit")
}

func TestApp_RunRestoresSession(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t, "")
	require.NoError(t, ta.session.Login(context.Background(), "tok"))

	require.NoError(t, ta.Run(context.Background()))

	assert.Equal(t, views.RouteChat, ta.router.Current())
	assert.Equal(t, []live.Key{{UserID: 1, Token: "tok"}}, ta.tr.ensured)
	assert.Contains(t, ta.out.String(), "Bye!")
}
