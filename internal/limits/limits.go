// Package limits consumes the platform's subscription-limit capability:
// "can this user perform N more of operation X?". The capability itself is
// an external collaborator; only its contract shape lives here.
package limits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Decision is the platform's answer to a limit check.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Message  string `json:"message,omitempty"`
	PlanSlug string `json:"plan,omitempty"`
}

// Checker answers whether a user may consume delta more of a resource kind.
type Checker interface {
	CheckLimit(ctx context.Context, userID, resource string, delta int) (Decision, error)
}

// AllowAll is the permissive checker used when no platform API is
// configured (local development, tests).
type AllowAll struct{}

func (AllowAll) CheckLimit(context.Context, string, string, int) (Decision, error) {
	return Decision{Allowed: true}, nil
}

// HTTPChecker calls the platform's limit endpoint.
type HTTPChecker struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPChecker(baseURL, apiKey string, timeout time.Duration) *HTTPChecker {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type checkRequest struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Delta    int    `json:"delta"`
}

func (c *HTTPChecker) CheckLimit(ctx context.Context, userID, resource string, delta int) (Decision, error) {
	body, err := json.Marshal(checkRequest{UserID: userID, Resource: resource, Delta: delta})
	if err != nil {
		return Decision{}, fmt.Errorf("marshal limit check: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/limits/check", bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("create limit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("limit check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("limit check returned status %d", resp.StatusCode)
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return Decision{}, fmt.Errorf("decode limit response: %w", err)
	}
	return decision, nil
}
