package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client provides access to the chat server's REST API:
// authentication, the room directory, and the admin endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a new REST API client.
// baseURL is the server root, e.g. "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SetTimeout changes the per-request timeout. Zero disables it.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetToken sets the bearer token for authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authentication endpoints

// Signup creates a new user account. It does not log in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if req.Role == "" {
		req.Role = RoleUser
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var resp SignupResponse
	if err := c.send(ctx, http.MethodPost, "/signup", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with existing credentials and returns a bearer token.
// The token is not stored on the client; call SetToken to use it.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var resp TokenResponse
	if err := c.send(ctx, http.MethodPost, "/login", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the profile of the token owner.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp User
	if err := c.send(ctx, http.MethodGet, "/users/me", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Room directory endpoints

// MyRooms returns the rooms the user created or participates in.
func (c *Client) MyRooms(ctx context.Context) ([]Room, error) {
	var resp []Room
	if err := c.send(ctx, http.MethodGet, "/users/me/rooms", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateRoom creates a new public or private room.
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var resp CreateRoomResponse
	if err := c.send(ctx, http.MethodPost, "/rooms/create", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RoomByToken looks a room up by its token.
func (c *Client) RoomByToken(ctx context.Context, roomToken string) (*RoomInfo, error) {
	var resp RoomInfo
	if err := c.send(ctx, http.MethodGet, "/rooms/token/"+url.PathEscape(roomToken), nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateRoom renames the room identified by roomToken.
func (c *Client) UpdateRoom(ctx context.Context, roomToken string, req UpdateRoomRequest) (*UpdateRoomResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var resp UpdateRoomResponse
	if err := c.send(ctx, http.MethodPut, "/rooms/"+url.PathEscape(roomToken), req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRoom deletes a room the user created.
func (c *Client) DeleteRoom(ctx context.Context, roomToken string) error {
	return c.send(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(roomToken), nil, nil, true)
}

// Admin endpoints. The server rejects them with 403 unless the token carries the admin role.

// AdminRooms lists every room.
func (c *Client) AdminRooms(ctx context.Context) ([]AdminRoom, error) {
	var resp []AdminRoom
	if err := c.send(ctx, http.MethodGet, "/admin/rooms", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// AdminUsers lists every user.
func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var resp []AdminUser
	if err := c.send(ctx, http.MethodGet, "/admin/users", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// AdminDeleteUser removes a user by id.
func (c *Client) AdminDeleteUser(ctx context.Context, userID int64) error {
	return c.send(ctx, http.MethodDelete, "/admin/users/"+strconv.FormatInt(userID, 10), nil, nil, true)
}

// AdminDeleteRoom force-deletes a room. The admin endpoint addresses rooms by
// token, like the owner endpoint.
func (c *Client) AdminDeleteRoom(ctx context.Context, roomToken string) error {
	return c.send(ctx, http.MethodDelete, "/admin/rooms/"+url.PathEscape(roomToken), nil, nil, true)
}

// Helper methods

func (c *Client) send(ctx context.Context, method, path string, body, dest any, requireAuth bool) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if requireAuth {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Handle error responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Detail = errResp.Message()
		}
		return apiErr
	}

	// Unmarshal success response
	if dest != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
