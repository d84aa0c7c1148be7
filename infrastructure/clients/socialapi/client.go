package socialapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"social-flood/domain/dto"
	"social-flood/domain/model"
	"social-flood/domain/repository"
	"social-flood/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

type contextKey string

// sessionCookieKey carries a per-request session cookie through the context
// so handler code can forward the caller's credentials.
const sessionCookieKey contextKey = "socialapi-session-cookie"

// WithSessionCookie returns a context whose API calls authenticate with the
// given session cookie value instead of the configured default.
func WithSessionCookie(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionCookieKey, cookie)
}

// Config locates the remote connections/posting service.
type Config struct {
	BaseURL       string
	CookieName    string
	SessionCookie string
	Timeout       time.Duration
}

// Client talks to the remote social API over both transport shapes: the
// cookie-session connections API and the legacy per-user query-string shape.
type Client struct {
	baseURL       string
	cookieName    string
	sessionCookie string
	httpClient    *http.Client
}

var _ repository.IConnectionAPI = (*Client)(nil)
var _ repository.IPublisher = (*Client)(nil)

// NewClient creates a social API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "session"
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		cookieName:    cookieName,
		sessionCookie: cfg.SessionCookie,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &model.PlatformError{Kind: model.ErrRemoteError, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &model.PlatformError{Kind: model.ErrNetworkError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie := c.sessionCookieFor(ctx); cookie != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.PlatformError{Kind: model.ErrNetworkError, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &model.PlatformError{Kind: model.ErrRemoteError, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func (c *Client) sessionCookieFor(ctx context.Context) string {
	if v, ok := ctx.Value(sessionCookieKey).(string); ok && v != "" {
		return v
	}
	return c.sessionCookie
}

// classifyStatus maps a non-2xx response to a classified error, passing the
// remote message through when the body parses as the standard error shape.
func classifyStatus(status int, body []byte) error {
	var apiErr dto.APIError
	message := ""
	if json.Unmarshal(body, &apiErr) == nil {
		message = apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
	}
	switch {
	case status == http.StatusUnauthorized:
		if message == "" {
			message = "not authenticated"
		}
		return &model.PlatformError{Kind: model.ErrUnauthenticated, Message: message}
	case status == http.StatusNotFound:
		if message == "" {
			message = "not found"
		}
		return &model.PlatformError{Kind: model.ErrNotFound, Message: message}
	case status == http.StatusGone:
		if message == "" {
			message = "grant expired"
		}
		return &model.PlatformError{Kind: model.ErrExpired, Message: message}
	default:
		if message == "" {
			message = fmt.Sprintf("remote returned status %d", status)
		}
		return &model.PlatformError{Kind: model.ErrRemoteError, Message: message}
	}
}

// ListConnections returns every connection of the session user.
func (c *Client) ListConnections(ctx context.Context) ([]model.Connection, error) {
	var res dto.ConnectionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/connections", nil, &res); err != nil {
		return nil, err
	}
	return res.Connections, nil
}

// LegacyStatus fetches connection state over the per-user transport.
// A reply without a connection means "looked up fine, not connected".
func (c *Client) LegacyStatus(ctx context.Context, platform model.Platform, userID string) (*model.Connection, error) {
	qs, err := query.Values(dto.LegacyStatusQuery{UserID: userID})
	if err != nil {
		return nil, &model.PlatformError{Platform: platform, Kind: model.ErrRemoteError, Message: err.Error()}
	}
	var res dto.LegacyStatusResponse
	path := fmt.Sprintf("/auth/%s/status?%s", url.PathEscape(string(platform)), qs.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if !res.Connected {
		return nil, nil
	}
	return res.Connection, nil
}

// GlobalAccounts lists the attached accounts of a globally-authenticated
// platform (no user identifier involved).
func (c *Client) GlobalAccounts(ctx context.Context, platform model.Platform) ([]model.Connection, error) {
	var res dto.TikTokUsersResponse
	path := fmt.Sprintf("/api/auth/%s/users", url.PathEscape(string(platform)))
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

// ConnectURL builds the external authorization URL for the popup flow. The
// transport shape follows the registry's RequiresUserID flag.
func (c *Client) ConnectURL(platform model.Platform, userID string) string {
	if model.Descriptor(platform).RequiresUserID {
		qs, err := query.Values(dto.LegacyStatusQuery{UserID: userID})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed to encode legacy login query")
			qs = url.Values{}
		}
		return fmt.Sprintf("%s/auth/%s/login?%s", c.baseURL, url.PathEscape(string(platform)), qs.Encode())
	}
	return fmt.Sprintf("%s/api/connections/%s/connect", c.baseURL, url.PathEscape(string(platform)))
}

// Disconnect removes a connection by id.
func (c *Client) Disconnect(ctx context.Context, connectionID string) error {
	path := fmt.Sprintf("/api/connections/%s", url.PathEscape(connectionID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RefreshConnection refreshes a connection's token.
func (c *Client) RefreshConnection(ctx context.Context, connectionID string) (*model.Connection, error) {
	var conn model.Connection
	path := fmt.Sprintf("/api/connections/%s/refresh", url.PathEscape(connectionID))
	if err := c.do(ctx, http.MethodPost, path, nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// ConnectionDetails fetches one connection by id.
func (c *Client) ConnectionDetails(ctx context.Context, connectionID string) (*model.Connection, error) {
	var conn model.Connection
	path := fmt.Sprintf("/api/connections/details/%s", url.PathEscape(connectionID))
	if err := c.do(ctx, http.MethodGet, path, nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// PublishPost submits one platform-specific post.
func (c *Client) PublishPost(ctx context.Context, req dto.PlatformPostRequest) (*dto.PostResponse, error) {
	body := req.Body()
	if body == nil {
		return nil, &model.PlatformError{
			Platform: req.Platform,
			Kind:     model.ErrValidationFailed,
			Message:  "request payload does not match its platform tag",
		}
	}
	var res dto.PostResponse
	path := fmt.Sprintf("/api/platforms/%s/posts", url.PathEscape(string(req.Platform)))
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		if pe, ok := err.(*model.PlatformError); ok && pe.Platform == "" {
			pe.Platform = req.Platform
		}
		return nil, err
	}
	if !res.Success {
		return nil, &model.PlatformError{Platform: req.Platform, Kind: model.ErrRemoteError, Message: res.Message}
	}
	return &res, nil
}
