package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pulsechat/internal/client/views"
)

// Profile opens the profile screen, fetching the profile again.
func (a *App) Profile(ctx context.Context) error {
	if a.router.Current() == views.RouteProfile {
		a.profile.Unmount()
		a.enter(ctx, views.RouteProfile)
		a.redraw()
		return nil
	}
	return a.Navigate(ctx, string(views.RouteProfile))
}

func (a *App) Edit() error {
	if err := a.onProfile(); err != nil {
		return err
	}
	if err := a.profile.Edit(); err != nil {
		return err
	}
	a.redraw()
	return nil
}

func (a *App) Set(field, value string) error {
	if err := a.onProfile(); err != nil {
		return err
	}
	if err := a.profile.Set(field, value); err != nil {
		return err
	}
	a.redraw()
	return nil
}

// Save submits the draft. A backend failure keeps the editor open with the
// draft intact.
func (a *App) Save(ctx context.Context) error {
	if err := a.onProfile(); err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.profile.Save(rctx); err != nil {
		if errors.Is(err, views.ErrNotEditing) {
			return err
		}
		a.log.Warn(ctx, "profile update failed", "error", err)
		a.notices.Error("Failed to update profile")
		a.redraw()
		return nil
	}

	a.notices.Success("Profile updated")
	a.redraw()
	return nil
}

func (a *App) Cancel() error {
	if err := a.onProfile(); err != nil {
		return err
	}
	a.profile.Cancel()
	a.redraw()
	return nil
}

var errNotOnProfile = errors.New("open your profile first ('profile')")

func (a *App) onProfile() error {
	if a.router.Current() != views.RouteProfile {
		return errNotOnProfile
	}
	return nil
}
