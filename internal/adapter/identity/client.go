// Package identity implements the link-code login flow against the
// identity service and keeps the resulting session.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/picks/internal/domain"
)

const (
	pinEndpoint = "/api/v1/pins"
	userAgent   = "Picks/1.0"
)

// pinResponse is returned when a link code is issued
type pinResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Link string `json:"link"`
}

// pinCheckResponse is returned while polling a link code.
// Principal and Delegation stay empty until the code is approved.
type pinCheckResponse struct {
	Principal  string    `json:"principal"`
	Delegation string    `json:"delegation"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Client talks to the identity service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// polling backoff
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewClient creates a new identity service client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:          logger,
		initialInterval: 1 * time.Second,
		maxInterval:     5 * time.Second,
	}
}

func (c *Client) newRequest(ctx context.Context, method, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// RequestLink asks the identity service for a new link code
func (c *Client) RequestLink(ctx context.Context) (domain.LinkCode, error) {
	reqURL := c.baseURL + pinEndpoint

	req, err := c.newRequest(ctx, http.MethodPost, reqURL)
	if err != nil {
		return domain.LinkCode{}, err
	}

	c.logger.Debug("requesting link code", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("link code request failed", "error", err)
		return domain.LinkCode{}, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.LinkCode{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		c.logger.Error("link code request error", "status", resp.StatusCode, "body", string(body))
		return domain.LinkCode{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pr pinResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return domain.LinkCode{}, fmt.Errorf("failed to parse link code response: %w", err)
	}

	c.logger.Info("link code issued", "code", pr.Code, "id", pr.ID)
	return domain.LinkCode{ID: pr.ID, Code: pr.Code, URL: pr.Link}, nil
}

// CheckLink polls a link code once. claimed is false until the user approves.
func (c *Client) CheckLink(ctx context.Context, id string) (identity domain.Identity, claimed bool, err error) {
	reqURL := fmt.Sprintf("%s%s/%s", c.baseURL, pinEndpoint, id)

	req, err := c.newRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return domain.Identity{}, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("link check failed", "error", err)
		return domain.Identity{}, false, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.Identity{}, false, domain.ErrLinkExpired
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("link check error", "status", resp.StatusCode, "body", string(body))
		return domain.Identity{}, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var cr pinCheckResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return domain.Identity{}, false, fmt.Errorf("failed to parse link check response: %w", err)
	}

	if cr.Principal == "" || cr.Delegation == "" {
		return domain.Identity{}, false, nil // not yet approved
	}

	c.logger.Info("link code approved")
	return domain.Identity{
		Principal:  domain.Principal(cr.Principal),
		Delegation: cr.Delegation,
		ExpiresAt:  cr.ExpiresAt,
	}, true, nil
}

// WaitForLink polls a link code with exponential backoff until it is approved,
// expires, or timeout passes
func (c *Client) WaitForLink(ctx context.Context, id string, timeout time.Duration) (domain.Identity, error) {
	deadline := time.Now().Add(timeout)
	interval := c.initialInterval

	for time.Now().Before(deadline) {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Identity{}, ctx.Err()
		case <-timer.C:
			identity, claimed, err := c.CheckLink(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrLinkExpired) {
					return domain.Identity{}, err
				}
				c.logger.Warn("link check error, retrying", "error", err)
				continue
			}

			if claimed {
				return identity, nil
			}

			interval = min(interval*2, c.maxInterval)
		}
	}

	return domain.Identity{}, domain.ErrLinkExpired
}
