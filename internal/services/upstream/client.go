// Package upstream provides the HTTP client for the SRI backend API.
//
// Transport-level concerns are handled here once, for every request: the
// bearer token is attached when present, a 401 from any endpoint invokes the
// registered forced-logout hook, and 403/409/422 responses are mapped to
// domain errors carrying the backend's detail message.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	domainerrors "github.com/sri-intel/console-service/internal/domain/errors"
	"github.com/sri-intel/console-service/internal/domain/models"
)

const (
	loginPath = "/api/auth/login"
	mePath    = "/api/auth/me"
)

// Client defines the interface for the SRI backend client.
type Client interface {
	// Login authenticates the operator and returns the normalized result.
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)

	// Me returns the profile for the given bearer token.
	Me(ctx context.Context, token string) (*models.User, error)

	// Do performs an arbitrary backend request. The bearer token is attached
	// when non-empty; a non-nil out receives the decoded JSON response.
	Do(ctx context.Context, method, path, token string, body, out interface{}) error

	// OnUnauthorized registers the hook invoked whenever any request
	// returns HTTP 401.
	OnUnauthorized(fn func())
}

// ClientConfig holds the configuration for the backend client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// client implements the Client interface.
type client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	unauthorized func()
}

// NewClient creates a new SRI backend client.
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}, nil
}

// OnUnauthorized registers the forced-logout hook.
func (c *client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.unauthorized = fn
	c.mu.Unlock()
}

// Login authenticates against the backend auth endpoint.
func (c *client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	req := loginRequest{
		Username: creds.Username,
		Phone:    creds.Username,
		Password: creds.Password,
	}

	var resp loginResponse
	if err := c.Do(ctx, http.MethodPost, loginPath, "", req, &resp); err != nil {
		return nil, err
	}

	token := resp.token()
	if token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	return &LoginResult{
		Token: token,
		User:  resp.User.normalize(),
	}, nil
}

// Me returns the profile for the given bearer token.
func (c *client) Me(ctx context.Context, token string) (*models.User, error) {
	var wu wireUser
	if err := c.Do(ctx, http.MethodGet, mePath, token, nil, &wu); err != nil {
		return nil, err
	}
	return wu.normalize(), nil
}

// Do performs a backend request with the shared transport policy.
func (c *client) Do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapError converts a backend error response into a domain error and fires
// the forced-logout hook on 401.
func (c *client) mapError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	detail := extractDetail(data)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.mu.Lock()
		fn := c.unauthorized
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		if detail == "" {
			detail = "登录状态已失效，请重新登录"
		}
		return domainerrors.NewUnauthorizedError(detail)
	case http.StatusForbidden:
		if detail == "" {
			detail = "无权限执行该操作"
		}
		return domainerrors.NewForbiddenError(detail)
	case http.StatusConflict:
		return domainerrors.NewConflictError(detail)
	case http.StatusUnprocessableEntity:
		return domainerrors.NewValidationError(detail)
	default:
		if resp.StatusCode >= 500 {
			return domainerrors.NewServiceUnavailableError("SRI backend",
				fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
		return domainerrors.NewBadRequestError(detail,
			fmt.Sprintf("status %d", resp.StatusCode))
	}
}
