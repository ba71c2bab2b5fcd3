package actor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/picks/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Picks/1.0"
)

// Actor method names
const (
	methodGetCallerUserProfile  = "getCallerUserProfile"
	methodSaveCallerUserProfile = "saveCallerUserProfile"
	methodGetUserProfile        = "getUserProfile"
	methodGetProducts           = "getProducts"
	methodAddProduct            = "addProduct"
	methodUpdateProduct         = "updateProduct"
	methodRemoveProduct         = "removeProduct"
	methodGetCallerUserRole     = "getCallerUserRole"
	methodIsCallerAdmin         = "isCallerAdmin"
	methodAssignCallerUserRole  = "assignCallerUserRole"
)

// Client implements domain.Actor over the backend's HTTP gateway
type Client struct {
	baseURL    string
	delegation string // empty for anonymous calls
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new actor client. An empty delegation makes
// anonymous calls.
func NewClient(baseURL, delegation string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		delegation: delegation,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// call invokes a method with positional args and decodes its return value into out
func (c *Client) call(ctx context.Context, method string, out interface{}, args ...interface{}) error {
	if args == nil {
		args = []interface{}{}
	}
	body, err := json.Marshal(callRequest{Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode %s args: %w", method, err)
	}

	reqURL := fmt.Sprintf("%s/call/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.delegation != "" {
		req.Header.Set("Authorization", "Bearer "+c.delegation)
	}

	c.logger.Debug("actor call", "method", method, "requestID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &domain.RemoteError{Method: method, Err: ctxErr}
		}
		c.logger.Error("actor call failed", "method", method, "error", err)
		return &domain.RemoteError{Method: method, Err: domain.ErrServerOffline}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &domain.RemoteError{Method: method, Err: domain.ErrUnauthorized}
	}

	var cr callResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &cr); err != nil && resp.StatusCode == http.StatusOK {
			c.logger.Error("JSON parse error", "error", err, "bodyLen", len(respBody))
			return fmt.Errorf("failed to parse %s response: %w", method, err)
		}
	}

	if cr.Err != nil {
		c.logger.Warn("actor rejected call", "method", method, "reason", *cr.Err)
		return &domain.RemoteError{Method: method, Err: errors.New(*cr.Err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("actor call error", "method", method, "status", resp.StatusCode, "body", string(respBody))
		return &domain.RemoteError{Method: method, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if out == nil || len(cr.Ok) == 0 {
		return nil
	}
	if err := json.Unmarshal(cr.Ok, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// === Profiles ===

func (c *Client) GetCallerUserProfile(ctx context.Context) (domain.Option[domain.UserProfile], error) {
	var out domain.Option[domain.UserProfile]
	if err := c.call(ctx, methodGetCallerUserProfile, &out); err != nil {
		return domain.None[domain.UserProfile](), err
	}
	return out, nil
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, profile domain.UserProfile) error {
	return c.call(ctx, methodSaveCallerUserProfile, nil, profile)
}

func (c *Client) GetUserProfile(ctx context.Context, user domain.Principal) (domain.Option[domain.UserProfile], error) {
	var out domain.Option[domain.UserProfile]
	if err := c.call(ctx, methodGetUserProfile, &out, user.String()); err != nil {
		return domain.None[domain.UserProfile](), err
	}
	return out, nil
}

// === Products ===

func (c *Client) GetProducts(ctx context.Context, user domain.Principal) ([]domain.ProductListing, error) {
	var dtos []productListingDTO
	if err := c.call(ctx, methodGetProducts, &dtos, user.String()); err != nil {
		return nil, err
	}
	products, err := MapProducts(dtos)
	if err != nil {
		return nil, &domain.RemoteError{Method: methodGetProducts, Err: err}
	}
	return products, nil
}

func (c *Client) AddProduct(ctx context.Context, product domain.ProductListing) error {
	return c.call(ctx, methodAddProduct, nil, product)
}

func (c *Client) UpdateProduct(ctx context.Context, index uint64, product domain.ProductListing) error {
	return c.call(ctx, methodUpdateProduct, nil, index, product)
}

func (c *Client) RemoveProduct(ctx context.Context, index uint64) error {
	return c.call(ctx, methodRemoveProduct, nil, index)
}

// === Roles ===

func (c *Client) GetCallerUserRole(ctx context.Context) (domain.UserRole, error) {
	var role string
	if err := c.call(ctx, methodGetCallerUserRole, &role); err != nil {
		return "", err
	}
	r, err := domain.ParseUserRole(role)
	if err != nil {
		return "", &domain.RemoteError{Method: methodGetCallerUserRole, Err: err}
	}
	return r, nil
}

func (c *Client) IsCallerAdmin(ctx context.Context) (bool, error) {
	var admin bool
	if err := c.call(ctx, methodIsCallerAdmin, &admin); err != nil {
		return false, err
	}
	return admin, nil
}

func (c *Client) AssignCallerUserRole(ctx context.Context, user domain.Principal, role domain.UserRole) error {
	return c.call(ctx, methodAssignCallerUserRole, nil, user.String(), string(role))
}
