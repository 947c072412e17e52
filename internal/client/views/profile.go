package views

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/logging"
)

var themeColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ProfileFields lists the draft fields Set accepts, in display order.
var ProfileFields = []string{"avatar", "bio", "location", "interests", "website", "theme_color"}

type ProfileAPI interface {
	GetProfile(ctx context.Context, token string) (models.Profile, error)
	UpdateProfile(ctx context.Context, token string, draft models.ProfileDraft) error
}

// ProfileEditor edits the signed-in user's profile through a draft. The
// draft survives failed saves; Cancel rebuilds it from the session.
type ProfileEditor struct {
	api     ProfileAPI
	sess    Session
	log     logging.Logger
	draft   models.ProfileDraft
	editing bool
	loaded  bool
}

func NewProfileEditor(api ProfileAPI, sess Session, log logging.Logger) *ProfileEditor {
	return &ProfileEditor{api: api, sess: sess, log: log.With("view", "profile")}
}

// Mount fetches the canonical profile, mirrors it into the session and
// builds the draft from it.
func (e *ProfileEditor) Mount(ctx context.Context) error {
	e.editing = false
	p, err := e.api.GetProfile(ctx, e.sess.Current().Token)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if err := e.sess.UpdateUser(ctx, func(models.Profile) models.Profile { return p }); err != nil {
		return err
	}
	e.draft = models.DraftFrom(p)
	e.loaded = true
	return nil
}

func (e *ProfileEditor) Unmount() {
	e.editing = false
	e.loaded = false
	e.draft = models.ProfileDraft{}
}

func (e *ProfileEditor) Loaded() bool  { return e.loaded }
func (e *ProfileEditor) Editing() bool { return e.editing }

func (e *ProfileEditor) Draft() models.ProfileDraft {
	return e.draft
}

// Edit enters edit mode. The draft is not re-fetched.
func (e *ProfileEditor) Edit() error {
	if !e.loaded {
		return ErrNotLoaded
	}
	e.editing = true
	return nil
}

// Set changes one draft field while editing.
func (e *ProfileEditor) Set(field, value string) error {
	if !e.editing {
		return ErrNotEditing
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "avatar":
		e.draft.Avatar = value
	case "bio":
		e.draft.Bio = value
	case "location":
		e.draft.Location = value
	case "interests":
		e.draft.Interests = value
	case "website":
		e.draft.Website = value
	case "theme_color", "theme":
		if !themeColorRe.MatchString(value) {
			return ErrInvalidColor
		}
		e.draft.ThemeColor = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Save sends the whole draft. On success it is merged into the session user
// and edit mode ends; on failure edit mode and the draft are kept.
func (e *ProfileEditor) Save(ctx context.Context) error {
	if !e.editing {
		return ErrNotEditing
	}
	draft := e.draft
	if err := e.api.UpdateProfile(ctx, e.sess.Current().Token, draft); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if err := e.sess.UpdateUser(ctx, draft.Merge); err != nil {
		return err
	}
	e.editing = false
	e.log.Info(ctx, "profile updated")
	return nil
}

// Cancel restores the draft from the session user and leaves edit mode.
func (e *ProfileEditor) Cancel() {
	if u := e.sess.Current().User; u != nil {
		e.draft = models.DraftFrom(*u)
	}
	e.editing = false
}
