package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsechat/internal/client/models"
)

// maxErrorBody bounds how much of an error response ends up in an error string.
const maxErrorBody = 512

// HTTPClient implements Client over the backend's JSON REST API.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient returns a client rooted at baseURL (for example
// "http://127.0.0.1:8080/api"). A zero timeout disables the per-call bound.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User *models.Profile `json:"user"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	req := registerRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/register", "", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (models.Profile, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, "/profile", token, nil, &resp); err != nil {
		return models.Profile{}, err
	}
	if resp.User == nil {
		return models.Profile{}, fmt.Errorf("%w: user not found in response", ErrBadResponse)
	}
	return *resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, draft models.ProfileDraft) error {
	return c.do(ctx, http.MethodPut, "/profile", token, draft, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.Peer, error) {
	var peers []models.Peer
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

func (c *HTTPClient) GetMessages(ctx context.Context, token string, peerID int64) ([]models.Message, error) {
	var msgs []models.Message
	path := "/messages/" + strconv.FormatInt(peerID, 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// do performs one JSON round trip. body and out may be nil.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, path, err.Error())
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %s", ErrBadResponse, method, path, err.Error())
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(b))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %s: %s", ErrRequestFailed, resp.Status, detail)
	}
}
