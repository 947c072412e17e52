// Package services contains application services for the PulseChat client.
// This file defines the authentication service: registration, login and
// logout on top of the REST client and the session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsechat/internal/logging"
)

var (
	// ErrNoToken is returned when the backend accepted a login but sent no token.
	ErrNoToken = errors.New("login response carried no token")
	// ErrMissingCredentials is returned before any request is made.
	ErrMissingCredentials = errors.New("username and password are required")
)

// AuthClient is the subset of the REST client used for authentication.
type AuthClient interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

// SessionStore receives the result of a successful login.
type SessionStore interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account on the server; does not sign in.
//   - Login: obtain a token and hand it to the session store, which fetches
//     the profile.
//   - Logout: clear the local session. There is no server-side logout.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

type authService struct {
	client  AuthClient
	session SessionStore
	log     logging.Logger
}

func NewAuthService(client AuthClient, session SessionStore, log logging.Logger) AuthService {
	return &authService{client: client, session: session, log: log.With("service", "auth")}
}

func (a *authService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if err := a.client.Register(ctx, username, strings.TrimSpace(email), password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	a.log.Info(ctx, "registered", "username", username)
	return nil
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if token == "" {
		return ErrNoToken
	}

	if err := a.session.Login(ctx, token); err != nil {
		return fmt.Errorf("session error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}
