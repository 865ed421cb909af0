package destinations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxResponseBody caps how much of a provider reply is read.
	maxResponseBody = 1 << 20
)

// APIError is a non-2xx provider reply that is neither an auth nor a
// rate-limit failure. The body is preserved for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}

// AuthorizeFunc attaches credentials to an outbound request.
type AuthorizeFunc func(ctx context.Context, req *http.Request) error

// Client is the HTTP helper shared by all destination adapters. Adapters
// differ only in base URL, authorization, and payload shaping; timeouts,
// audit logging, and status-code mapping live here.
type Client struct {
	destination string
	baseURL     string
	authorize   AuthorizeFunc
	audit       driven.AuditLogger
	httpClient  *http.Client
}

// NewTokenClient creates a client authenticating with a long-lived token
// resolved per call, so a token rotated in settings takes effect without
// a restart.
func NewTokenClient(destination, baseURL string, token func() (string, error), audit driven.AuditLogger) *Client {
	return &Client{
		destination: destination,
		baseURL:     strings.TrimRight(baseURL, "/"),
		audit:       audit,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		authorize: func(_ context.Context, req *http.Request) error {
			t, err := token()
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+t)
			return nil
		},
	}
}

// NewOAuthClient creates a client whose transport injects bearer tokens
// from the token manager. Every request consults the manager, so the
// volatile cache serves the hot path and refreshes happen transparently
// mid-run.
func NewOAuthClient(destination, baseURL string, manager driven.TokenManager, audit driven.AuditLogger) *Client {
	hc := oauth2.NewClient(context.Background(), managerTokenSource{manager: manager})
	hc.Timeout = DefaultTimeout
	return &Client{
		destination: destination,
		baseURL:     strings.TrimRight(baseURL, "/"),
		audit:       audit,
		httpClient:  hc,
	}
}

// managerTokenSource adapts driven.TokenManager to oauth2.TokenSource.
// Token deliberately leaves Expiry zero: the manager's own cache decides
// freshness, so the oauth2 transport must ask on every request.
type managerTokenSource struct {
	manager driven.TokenManager
}

func (s managerTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.manager.GetValidAccessToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}

// Do performs one JSON call against the provider. A nil body sends no
// payload; a non-nil out decodes the reply into it. Status codes map to
// the error taxonomy: 401 wraps domain.ErrReauthRequired, 429 wraps
// domain.ErrRateLimited, any other non-2xx becomes an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authorize != nil {
		if err := c.authorize(ctx, req); err != nil {
			return fmt.Errorf("authorizing request: %w", err)
		}
	}

	c.audit.LogRequest(c.destination, method, path, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.audit.LogError(c.destination, err.Error())
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		c.audit.LogError(c.destination, err.Error())
		return fmt.Errorf("reading response: %w", err)
	}

	c.audit.LogResponse(c.destination, resp.StatusCode, raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrReauthRequired, snippet(raw))
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, snippet(raw))
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Body: snippet(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// snippet trims a provider error body down to a loggable single line.
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}
