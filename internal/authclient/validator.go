package authclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// ReferenceValidator validates externally-issued identifiers against the
// auth service. Implementations return the fetched snapshot on success, or
// (nil, nil) when validation was skipped because no service credential is
// configured — in that degraded mode the identifier is accepted verbatim
// and any cached display fields are left untouched.
type ReferenceValidator interface {
	ValidateClient(ctx context.Context, clientID string) (*ClientInfo, error)
	ValidateEmployee(ctx context.Context, employeeID string) (*EmployeeInfo, error)
	ValidateUser(ctx context.Context, userID string) (*UserInfo, error)
}

// Validator is the production ReferenceValidator backed by a Client and a
// statically configured service-level token.
type Validator struct {
	client       *Client
	serviceToken string
}

// NewValidator builds a Validator. An empty serviceToken enables the
// degraded skip mode rather than failing.
func NewValidator(client *Client, serviceToken string) *Validator {
	return &Validator{client: client, serviceToken: serviceToken}
}

func (v *Validator) skip(kind, id string) bool {
	if v.serviceToken != "" {
		return false
	}
	log.Warn().
		Str(kind, id).
		Msg("no service auth token configured, skipping reference validation")
	return true
}

// ValidateClient confirms a client reference and returns its snapshot.
func (v *Validator) ValidateClient(ctx context.Context, clientID string) (*ClientInfo, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	if v.skip("client_id", clientID) {
		return nil, nil
	}
	info, err := v.client.GetClient(ctx, clientID, v.serviceToken)
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, fmt.Errorf("client %q does not exist in the auth service: %w", clientID, err)
		}
		return nil, err
	}
	return info, nil
}

// ValidateEmployee confirms an employee reference and that it is active.
func (v *Validator) ValidateEmployee(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
	if employeeID == "" {
		return nil, errors.New("employee ID is required")
	}
	if v.skip("employee_id", employeeID) {
		return nil, nil
	}
	info, err := v.client.GetEmployee(ctx, employeeID, v.serviceToken)
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, fmt.Errorf("employee %q does not exist in the auth service: %w", employeeID, err)
		}
		return nil, err
	}
	if !info.IsActive {
		return nil, fmt.Errorf("employee %q is not active: %w", employeeID, ErrReferenceInactive)
	}
	return info, nil
}

// ValidateUser confirms a user reference and that it is active.
func (v *Validator) ValidateUser(ctx context.Context, userID string) (*UserInfo, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if v.skip("user_id", userID) {
		return nil, nil
	}
	info, err := v.client.GetUser(ctx, userID, v.serviceToken)
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, fmt.Errorf("user %q does not exist in the auth service: %w", userID, err)
		}
		return nil, err
	}
	if !info.IsActive {
		return nil, fmt.Errorf("user %q is not active: %w", userID, ErrReferenceInactive)
	}
	return info, nil
}

var (
	defaultMu        sync.Mutex
	defaultValidator ReferenceValidator
)

// Default returns the process-wide validator, building it lazily from the
// AUTH_SERVICE_URL and SERVICE_AUTH_TOKEN environment variables. Services
// accept an injected ReferenceValidator and fall back to this.
func Default() ReferenceValidator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultValidator == nil {
		baseURL := os.Getenv("AUTH_SERVICE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:9000"
		}
		defaultValidator = NewValidator(New(baseURL), os.Getenv("SERVICE_AUTH_TOKEN"))
	}
	return defaultValidator
}

// SetDefault replaces the process-wide validator.
func SetDefault(v ReferenceValidator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultValidator = v
}
