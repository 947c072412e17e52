// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. A transport-agnostic REST contract (see the Client interface):
//     Register, Login, GetProfile, UpdateProfile, ListUsers, GetMessages.
//  2. A concrete net/http implementation (see HTTPClient) that attaches the
//     bearer token, bounds every call with a timeout and maps HTTP status
//     codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Callers match conditions with errors.Is against ErrUnavailable,
// ErrUnauthorized, ErrBadResponse and ErrRequestFailed.
package client
