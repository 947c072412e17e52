// Package metadata is the client's durable key/value storage. The session
// store keeps the credential token and the last known profile here so a
// restart can restore the session without logging in again.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository stores opaque values under string keys. Get returns (nil, nil)
// for a missing key; Delete ignores keys that do not exist.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
