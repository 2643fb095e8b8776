package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	noFollow *http.Client // returns redirects instead of following them

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		noFollow: &http.Client{Timeout: timeout, CheckRedirect: stopAtRedirect},
	}
}

func stopAtRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Register(ctx context.Context, handle string, secret []byte) error {
	body := map[string]string{"handle": handle, "secret": string(secret)}
	return c.do(ctx, http.MethodPost, "/register", body, false, nil)
}

// Login authenticates and keeps the returned token for later calls.
func (c *HTTPClient) Login(ctx context.Context, handle string, secret []byte) error {
	body := map[string]string{"handle": handle, "secret": string(secret)}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", body, false, &resp); err != nil {
		return err
	}
	c.SetToken(resp.Token)
	return nil
}

func (c *HTTPClient) WhoAmI(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/check", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, title, content string) (*Project, error) {
	body := map[string]string{"title": title, "content": content}
	var resp struct {
		Project Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/createproject", body, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *HTTPClient) Projects(ctx context.Context) ([]Project, error) {
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *HTTPClient) Profile(ctx context.Context, handle string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(handle), nil, false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LinkURL asks the server to start linking a third-party account and
// returns the provider consent address it redirects to. The address carries
// a signed state, so it can be opened in any browser without the session
// token.
func (c *HTTPClient) LinkURL(ctx context.Context) (string, error) {
	if c.Token() == "" {
		return "", ErrUnauthorized
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/login", nil, true)
	if err != nil {
		return "", err
	}
	resp, err := c.noFollow.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		if err := readResponse(resp, nil); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: unexpected status %d", ErrServer, resp.StatusCode)
	}

	loc, err := resp.Location()
	if err != nil {
		return "", fmt.Errorf("%w: redirect without location", ErrServer)
	}
	return loc.String(), nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, false, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, withAuth bool, out any) error {
	req, err := c.newRequest(ctx, method, path, in, withAuth)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return readResponse(resp, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, in any, withAuth bool) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if withAuth {
		if t := c.Token(); t != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+t)
		}
	}
	return req, nil
}

// readResponse turns a non-2xx answer into an *APIError and decodes a
// successful body into out, when out is set.
func readResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
