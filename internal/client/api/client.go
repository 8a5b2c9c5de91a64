// Package api is an HTTP client for the storypoint REST API. It keeps the
// session cookie issued by sign-up or log-in and presents it on protected
// calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type User struct {
	UserName  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Room struct {
	RoomID        string `json:"roomId"`
	Name          string `json:"name"`
	OwnerUserName string `json:"ownerUsername"`
	CreatedAt     int64  `json:"createdAt"`
	Status        string `json:"status"`
}

type SignUpRequest struct {
	UserName  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type sessionResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu      sync.RWMutex
	session *http.Cookie
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}
	return &Client{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

// LoggedIn reports whether a session cookie is held.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// LogOut forgets the session cookie. Sessions are stateless, so the server
// is not contacted.
func (c *Client) LogOut() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/sign-up", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) LogIn(ctx context.Context, userName, password string) (*User, error) {
	body := map[string]string{"username": userName, "password": password}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/log-in", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPost, "/change-password", body, http.StatusOK, &messageResponse{})
}

func (c *Client) CreateRoom(ctx context.Context, name string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodPost, "/rooms", map[string]string{"name": name}, http.StatusCreated, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(id), nil, http.StatusOK, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Ping checks the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	if c.session != nil {
		req.AddCookie(&http.Cookie{Name: c.session.Name, Value: c.session.Value})
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.keepSession(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != want {
		var m messageResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&m)
		if m.Message == "" {
			m.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// keepSession stores a fresh session cookie from the response, if any.
func (c *Client) keepSession(resp *http.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name != common.SessionCookieName || ck.Value == "" {
			continue
		}
		c.mu.Lock()
		c.session = ck
		c.mu.Unlock()
	}
}
