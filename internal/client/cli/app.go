package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/client"
	"github.com/dmitrijs2005/pulsechat/internal/client/config"
	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/notify"
	"github.com/dmitrijs2005/pulsechat/internal/client/services"
	"github.com/dmitrijs2005/pulsechat/internal/client/session"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
	"github.com/dmitrijs2005/pulsechat/internal/filex"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
	"golang.org/x/time/rate"

	_ "modernc.org/sqlite"
)

// transport is the live connection as the App drives it.
type transport interface {
	views.Transport
	Events() <-chan live.Event
	Ensure(ctx context.Context, key live.Key) error
	Close()
}

type historyResult struct {
	ticket views.Ticket
	msgs   []models.Message
	err    error
}

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Store
	auth    services.AuthService
	live    transport

	router  *views.Router
	roster  *views.Roster
	conv    *views.Conversation
	profile *views.ProfileEditor
	notices *notify.Center

	// dials throttles live transport connects when the user keeps
	// re-entering the chat.
	dials *rate.Limiter

	reader  *bufio.Reader
	out     io.Writer
	history chan historyResult
}

const (
	dialEvery = 2 * time.Second
	dialBurst = 3
)

// NewApp opens the local database and wires the REST client, session store
// and live transport from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DBPath); err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	store := session.NewStore(db, api, log)
	mgr := live.NewManager(c.WSURL, live.NewWebsocketDialer(), log)

	a := newApp(c, log, api, store, mgr, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, store *session.Store, tr transport, in io.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		log:     log,
		session: store,
		auth:    services.NewAuthService(api, store, log),
		live:    tr,
		router:  views.NewRouter(),
		roster:  views.NewRoster(api, store, log),
		conv:    views.NewConversation(api, tr, store, log),
		profile: views.NewProfileEditor(api, store, log),
		notices: notify.NewCenter(),
		dials:   rate.NewLimiter(rate.Every(dialEvery), dialBurst),
		reader:  bufio.NewReader(in),
		out:     out,
		history: make(chan historyResult, 1),
	}
}

// Run restores the saved session, opens the first screen and serves the
// REPL until the user quits, stdin ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
		a.notices.Error("Your session has ended, please log in again.")
	}

	start := views.RouteLogin
	if a.authenticated() {
		start = views.RouteChat
	}
	fmt.Fprintln(a.out, "Welcome to PulseChat (type 'help' for commands)")
	if err := a.Navigate(ctx, string(start)); err != nil {
		return err
	}
	return a.loop(ctx)
}

// Close releases the live connection and the database.
func (a *App) Close() {
	a.conv.Unmount()
	a.live.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) authenticated() bool {
	return a.session.Current().Authenticated()
}

func (a *App) chatOpen() bool {
	if a.router.Current() != views.RouteChat {
		return false
	}
	_, ok := a.conv.Peer()
	return ok
}

// requestCtx bounds calls the loop makes synchronously.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func (a *App) status() string {
	st := a.session.Current()
	if st.User == nil {
		return string(a.router.Current())
	}
	s := st.User.Username + " " + string(a.router.Current())
	if p, ok := a.conv.Peer(); ok && a.router.Current() == views.RouteChat {
		s += " @" + p.Username
	}
	return s
}
