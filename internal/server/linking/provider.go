// Package linking talks to the external OAuth2 provider whose identities
// accounts can be linked to.
package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/server/config"
	"golang.org/x/oauth2"
)

var (
	ErrExchange = errors.New("code exchange failed")
	ErrUserInfo = errors.New("user info request failed")
)

// Provider wraps an oauth2.Config together with the user-info endpoint
// and the JSON field that carries the third-party handle.
type Provider struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
	handleField  string
	httpClient   *http.Client
}

// NewProvider builds a Provider. httpClient may be nil.
func NewProvider(c config.LinkConfig, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	field := c.HandleField
	if field == "" {
		field = "login"
	}
	return &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  c.AuthURL,
				TokenURL: c.TokenURL,
			},
			RedirectURL: c.RedirectURL,
			Scopes:      c.Scopes,
		},
		userInfoURL: c.UserInfoURL,
		handleField: field,
		httpClient:  httpClient,
	}
}

// AuthCodeURL is where the browser is sent to approve the link.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// ResolveHandle exchanges the one-time code and returns the third-party
// handle reported by the user-info endpoint.
func (p *Provider) ResolveHandle(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.oauth2Config.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUserInfo, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, 1<<20))
	dec.UseNumber()

	var info map[string]any
	if err := dec.Decode(&info); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUserInfo, err)
	}

	handle := stringValue(info, p.handleField)
	if handle == "" {
		return "", fmt.Errorf("%w: field %q missing", ErrUserInfo, p.handleField)
	}
	return handle, nil
}

func stringValue(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
