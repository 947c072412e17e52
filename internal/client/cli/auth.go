package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pulsechat/internal/client/services"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and creates the account.
// On success the login screen is shown; the user is not signed in.
func (a *App) Register(ctx context.Context) error {
	if err := a.Navigate(ctx, string(views.RouteRegister)); err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.auth.Register(rctx, username, email, password); err != nil {
		if errors.Is(err, services.ErrMissingCredentials) {
			return err
		}
		a.log.Warn(ctx, "registration failed", "error", err)
		a.notices.Error("Registration failed")
		a.redraw()
		return nil
	}

	a.notices.Success("Registered successfully!")
	return a.Navigate(ctx, string(views.RouteLogin))
}

// Login prompts for credentials, establishes the session and opens the chat.
func (a *App) Login(ctx context.Context) error {
	if err := a.Navigate(ctx, string(views.RouteLogin)); err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.auth.Login(rctx, username, password); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return err
		case errors.Is(err, services.ErrNoToken):
			a.notices.Error("No token received")
		default:
			a.notices.Error("Login failed")
		}
		a.log.Warn(ctx, "login failed", "error", err)
		a.redraw()
		return nil
	}

	return a.Navigate(ctx, string(views.RouteChat))
}

// Logout ends the session, drops the live connection and returns to the
// login screen.
func (a *App) Logout(ctx context.Context) error {
	a.live.Close()
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
	}
	return a.Navigate(ctx, string(views.RouteLogin))
}
