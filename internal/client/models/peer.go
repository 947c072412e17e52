package models

// Peer is an entry of the roster returned by GET /users.
type Peer struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
