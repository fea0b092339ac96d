// Package authclient talks to the remote auth service that owns client,
// employee and user records. This service stores only opaque identifiers
// for those entities; authclient confirms they are real and fetches the
// display snapshots cached alongside the references.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrReferenceNotFound means the remote service has no such entity.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrReferenceInactive means the entity exists but is deactivated.
	ErrReferenceInactive = errors.New("reference inactive")
	// ErrUpstreamUnavailable means the remote call failed or timed out.
	// Distinct from the missing-token degraded mode: an unreachable
	// service rejects the write, a missing token skips validation.
	ErrUpstreamUnavailable = errors.New("identity service unavailable")
)

// ClientInfo is the display snapshot for a client reference.
type ClientInfo struct {
	ClientID string `json:"client_id"`
	Name     string `json:"client_name"`
	Email    string `json:"email"`
}

// EmployeeInfo is the snapshot for an employee reference.
type EmployeeInfo struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}

// UserInfo is the snapshot for a user reference.
type UserInfo struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Client is an HTTP client for the auth service REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client against the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) getJSON(ctx context.Context, path, token string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
		}
		return nil
	case http.StatusNotFound:
		return ErrReferenceNotFound
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
}

// GetClient fetches a client record by its external identifier.
func (c *Client) GetClient(ctx context.Context, clientID, token string) (*ClientInfo, error) {
	var info ClientInfo
	if err := c.getJSON(ctx, "/api/v1/clients/"+clientID, token, &info); err != nil {
		return nil, err
	}
	if info.ClientID == "" {
		info.ClientID = clientID
	}
	return &info, nil
}

// GetEmployee fetches an employee record by its external identifier.
func (c *Client) GetEmployee(ctx context.Context, employeeID, token string) (*EmployeeInfo, error) {
	var info EmployeeInfo
	if err := c.getJSON(ctx, "/api/v1/employees/"+employeeID, token, &info); err != nil {
		return nil, err
	}
	if info.EmployeeID == "" {
		info.EmployeeID = employeeID
	}
	return &info, nil
}

// GetUser fetches a user record by its external identifier.
func (c *Client) GetUser(ctx context.Context, userID, token string) (*UserInfo, error) {
	var info UserInfo
	if err := c.getJSON(ctx, "/api/v1/users/"+userID, token, &info); err != nil {
		return nil, err
	}
	if info.UserID == "" {
		info.UserID = userID
	}
	return &info, nil
}

// VerifyToken asks the auth service whether a bearer token is valid and,
// if so, which user it belongs to.
func (c *Client) VerifyToken(ctx context.Context, token string) (bool, string, error) {
	var body struct {
		UserID string `json:"user_id"`
	}
	err := c.getJSON(ctx, "/api/v1/auth/verify-token", token, &body)
	switch {
	case err == nil:
		return true, body.UserID, nil
	case errors.Is(err, ErrReferenceNotFound):
		return false, "", nil
	default:
		return false, "", err
	}
}
