// Package session owns the signed-in identity of the running client: the
// credential token and the user's profile. State is an immutable value;
// Store replaces it only through its transition methods and persists every
// transition to the local metadata store.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pulsechat/internal/dbx"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrNoUser       = errors.New("no signed-in user")
)

// State is a snapshot of the session. The zero value means logged out.
type State struct {
	User  *models.Profile
	Token string
}

// Authenticated is derived from the presence of a user, not of a token.
func (s State) Authenticated() bool {
	return s.User != nil
}

// UserID returns the user's id, or 0 when nobody is signed in.
func (s State) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// ProfileFetcher loads the profile that belongs to a bearer token.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, token string) (models.Profile, error)
}

type Store struct {
	mu      sync.RWMutex
	state   State
	db      *sql.DB
	fetcher ProfileFetcher
	log     logging.Logger
	now     func() time.Time
}

func NewStore(db *sql.DB, fetcher ProfileFetcher, log logging.Logger) *Store {
	return &Store{db: db, fetcher: fetcher, log: log.With("component", "session"), now: time.Now}
}

// Current returns the current snapshot. The returned profile is a copy.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Restore loads the persisted session. A token without a cached user
// triggers a profile fetch; if that fails the session is logged out so the
// client never keeps a token-without-user state.
func (s *Store) Restore(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, metadata.KeyToken)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		return s.Logout(ctx)
	}

	rawUser, err := repo.Get(ctx, metadata.KeyUser)
	if err != nil {
		return err
	}

	var user *models.Profile
	if len(rawUser) > 0 {
		var p models.Profile
		if err := json.Unmarshal(rawUser, &p); err != nil {
			s.log.Warn(ctx, "discarding unreadable cached user", "error", err)
		} else {
			user = &p
		}
	}

	s.set(State{User: user, Token: string(token)})
	if user != nil {
		return nil
	}
	return s.refresh(ctx, string(token))
}

// Login persists token, drops any user cached for an earlier identity and
// fetches the profile that belongs to the token.
func (s *Store) Login(ctx context.Context, token string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Delete(ctx, metadata.KeyUser)
	})
	if err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.set(State{Token: token})
	return s.refresh(ctx, token)
}

// Logout clears the persisted token and user. Calling it again is harmless.
func (s *Store) Logout(ctx context.Context) error {
	err := metadata.NewSQLiteRepository(s.db).Delete(ctx, metadata.KeyToken, metadata.KeyUser)
	s.set(State{})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateUser replaces the signed-in user with fn(user) and persists it.
func (s *Store) UpdateUser(ctx context.Context, fn func(models.Profile) models.Profile) error {
	cur := s.Current()
	if cur.User == nil {
		return ErrNoUser
	}

	next := fn(*cur.User)
	if err := s.persistUser(ctx, next); err != nil {
		return err
	}
	s.set(State{User: &next, Token: cur.Token})
	return nil
}

func (s *Store) refresh(ctx context.Context, token string) error {
	if tokenExpired(token, s.now()) {
		s.log.Info(ctx, "stored token expired, logging out")
		if err := s.Logout(ctx); err != nil {
			return err
		}
		return ErrTokenExpired
	}

	p, err := s.fetcher.GetProfile(ctx, token)
	if err != nil {
		s.log.Warn(ctx, "profile fetch failed, logging out", "error", err)
		if lerr := s.Logout(ctx); lerr != nil {
			return errors.Join(err, lerr)
		}
		return fmt.Errorf("fetch profile: %w", err)
	}

	if err := s.persistUser(ctx, p); err != nil {
		return err
	}
	s.set(State{User: &p, Token: token})
	s.log.Info(ctx, "session established", "user_id", p.ID, "username", p.Username)
	return nil
}

func (s *Store) persistUser(ctx context.Context, p models.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := metadata.NewSQLiteRepository(s.db).Set(ctx, metadata.KeyUser, b); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = copyState(st)
	s.mu.Unlock()
}

func copyState(st State) State {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
