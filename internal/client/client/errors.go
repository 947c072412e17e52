package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadResponse   = errors.New("unexpected response")
	ErrRequestFailed = errors.New("request failed")
)
