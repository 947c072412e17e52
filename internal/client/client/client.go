package client

import (
	"context"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
)

// Client is the REST contract of the chat backend. Every authenticated call
// takes the bearer token explicitly; the client itself holds no session.
type Client interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	GetProfile(ctx context.Context, token string) (models.Profile, error)
	UpdateProfile(ctx context.Context, token string, draft models.ProfileDraft) error
	ListUsers(ctx context.Context, token string) ([]models.Peer, error)
	GetMessages(ctx context.Context, token string, peerID int64) ([]models.Message, error)
}
