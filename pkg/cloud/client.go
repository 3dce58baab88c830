package cloud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// RemoteError is a non-2xx response from the cloud service. The message is
// what the transfer ledger records for failed items.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (err *RemoteError) Error() string {
	return fmt.Sprintf("cloud: %s (status %d)", err.Message, err.StatusCode)
}

// Client talks to the hauskeep cloud API. It is not safe for concurrent use;
// the transfer orchestrator is the only caller and runs strictly
// sequentially.
type Client struct {
	baseURL    string
	httpClient *http.Client

	email        string
	accessToken  string
	refreshToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Email returns the cloud account email of the authenticated session.
func (c *Client) Email() string {
	return c.email
}

// RefreshToken returns the session credential that can restore this session
// later via RestoreSession.
func (c *Client) RefreshToken() string {
	return c.refreshToken
}

// Authenticate logs into an existing cloud account.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	resp, err := Post[LoginRequest, SessionResponse](ctx, c, "auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	c.email = email
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// Register creates a new cloud account. The resulting session is identical
// to one from Authenticate.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) error {
	resp, err := Post[RegisterRequest, SessionResponse](ctx, c, "auth/register", RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return err
	}

	c.email = email
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// RestoreSession re-authenticates with a refresh token persisted on an
// earlier transfer session.
func (c *Client) RestoreSession(ctx context.Context, refreshToken string) error {
	resp, err := Post[RefreshRequest, SessionResponse](ctx, c, "auth/refresh", RefreshRequest{
		RefreshToken: refreshToken,
	})
	if err != nil {
		return err
	}

	c.email = resp.Email
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// CheckSession verifies the current session is usable. The orchestrator
// calls it once before running categories so an unreachable or
// unauthenticated remote fails the run up front.
func (c *Client) CheckSession(ctx context.Context) error {
	_, err := Get[SessionInfoResponse](ctx, c, "auth/session")
	return err
}

// Get performs a typed GET against the cloud API.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Post performs a typed POST against the cloud API.
func Post[Req, Resp any](ctx context.Context, c *Client, path string, body Req) (Resp, error) {
	var out Resp
	err := c.do(ctx, http.MethodPost, path, body, &out)
	return out, err
}

// Put performs a typed PUT against the cloud API.
func Put[Req, Resp any](ctx context.Context, c *Client, path string, body Req) (Resp, error) {
	var out Resp
	err := c.do(ctx, http.MethodPut, path, body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WithStack(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return errors.WithStack(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	if resp.StatusCode >= 400 {
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    remoteErrorMessage(data, resp.StatusCode),
		}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func remoteErrorMessage(data []byte, statusCode int) string {
	payload := struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}{}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return http.StatusText(statusCode)
}
