package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/client"
	"github.com/dmitrijs2005/pulsechat/internal/client/config"
	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/session"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeAPI struct {
	mu sync.Mutex

	token    string
	loginErr error
	regErr   error

	profiles  map[string]models.Profile
	updateErr error
	peers     []models.Peer
	history   map[int64][]models.Message

	lastDraft   models.ProfileDraft
	lastRegUser string
}

func (f *fakeAPI) Register(_ context.Context, username, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRegUser = username
	return f.regErr
}

func (f *fakeAPI) Login(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.loginErr
}

func (f *fakeAPI) GetProfile(_ context.Context, token string) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[token]
	if !ok {
		return models.Profile{}, client.ErrUnauthorized
	}
	return p, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, draft models.ProfileDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDraft = draft
	return f.updateErr
}

func (f *fakeAPI) ListUsers(context.Context, string) ([]models.Peer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peers, nil
}

func (f *fakeAPI) GetMessages(_ context.Context, _ string, peerID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[peerID], nil
}

type fakeTransport struct {
	mu        sync.Mutex
	state     live.State
	events    chan live.Event
	ensured   []live.Key
	closed    int
	sent      []models.OutboundMessage
	ensureErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(chan live.Event, 8)}
}

func (f *fakeTransport) State() live.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeTransport) Send(frame models.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != live.StateOpen {
		return live.ErrNotOpen
	}
	f.sent = append(f.sent, frame)
	return nil
}

func (f *fakeTransport) Events() <-chan live.Event { return f.events }

func (f *fakeTransport) Ensure(_ context.Context, key live.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, key)
	if f.ensureErr != nil {
		f.state = live.StateClosed
		return f.ensureErr
	}
	if key.UserID != 0 && key.Token != "" {
		f.state = live.StateOpen
	}
	return nil
}

func (f *fakeTransport) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	if f.state != live.StateIdle {
		f.state = live.StateClosed
	}
}

type testApp struct {
	*App
	api *fakeAPI
	tr  *fakeTransport
	out *bytes.Buffer
}

func alice() models.Profile {
	return models.Profile{ID: 1, Username: "alice", Email: "alice@example.com", ThemeColor: "#10b981"}
}

func newTestApp(t *testing.T, in string) *testApp {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	api := &fakeAPI{
		token:    "tok",
		profiles: map[string]models.Profile{"tok": alice()},
		peers:    []models.Peer{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}},
		history: map[int64][]models.Message{
			2: {{SenderID: 2, To: 1, Content: "hi", CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}},
		},
	}
	tr := newFakeTransport()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	log := logging.Discard()
	store := session.NewStore(db, api, log)
	out := &bytes.Buffer{}

	return &testApp{
		App: newApp(cfg, log, api, store, tr, strings.NewReader(in), out),
		api: api,
		tr:  tr,
		out: out,
	}
}

// stubInputs answers prompts from the given values in order.
func stubInputs(t *testing.T, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	getPassword = func(*bufio.Reader, io.Writer) (string, error) { return next() }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()
	stubInputs(t, "alice", "secret")
	require.NoError(t, ta.Login(context.Background()))
}

// awaitHistory applies the next background history result the way the
// event loop does.
func (ta *testApp) awaitHistory(t *testing.T) bool {
	t.Helper()
	select {
	case res := <-ta.history:
		return ta.conv.ApplyHistory(res.ticket, res.msgs, res.err)
	case <-time.After(2 * time.Second):
		t.Fatal("no history result")
		return false
	}
}
