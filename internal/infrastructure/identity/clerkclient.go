// Package identity implements the client for the hosted identity provider.
// The provider owns the authoritative list of a user's sessions; sync
// reconciles local state against it.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tienda/internal/shared/config"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
)

const (
	defaultRequestTimeout = 10 * time.Second
	// Maximum response body size for the sessions endpoint (1MB)
	maxSessionsResponseSize = 1 << 20
)

// providerSession is the subset of the provider's session payload we consume.
type providerSession struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ClerkClient talks to a Clerk-style REST backend API using a server-side
// secret key.
type ClerkClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	logger     logger.Interface
}

// NewClerkClient creates a provider client from config.
func NewClerkClient(cfg *config.ProviderConfig, log logger.Interface) *ClerkClient {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &ClerkClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		logger:     log,
	}
}

// ListActiveSessionIDs returns the provider's active session IDs for a user.
// Any transport or decoding failure is surfaced as a provider-unavailable
// error; callers treat it as a soft failure and skip the user.
func (c *ClerkClient) ListActiveSessionIDs(ctx context.Context, userID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/sessions?status=active", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewProviderUnavailableError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("provider returned non-OK status",
			"status", resp.StatusCode,
			"user_id", userID,
		)
		return nil, errors.NewProviderUnavailableError(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSessionsResponseSize))
	if err != nil {
		return nil, errors.NewProviderUnavailableError(fmt.Sprintf("failed to read provider response: %v", err))
	}

	var sessions []providerSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, errors.NewProviderUnavailableError(fmt.Sprintf("failed to decode provider response: %v", err))
	}

	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == "active" {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}
