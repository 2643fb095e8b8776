package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variable names read by parseEnv.
const (
	EnvHTTPAddr          = "HTTP_ADDR"
	EnvDatabaseDSN       = "DATABASE_DSN"
	EnvTokenSecret       = "AUTH_TOKEN_SECRET"
	EnvTokenTTL          = "TOKEN_TTL"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLinkClientID      = "LINK_CLIENT_ID"
	EnvLinkClientSecret  = "LINK_CLIENT_SECRET"
	EnvLinkAuthURL       = "LINK_AUTH_URL"
	EnvLinkTokenURL      = "LINK_TOKEN_URL"
	EnvLinkUserInfoURL   = "LINK_USERINFO_URL"
	EnvLinkRedirectURL   = "LINK_REDIRECT_URL"
	EnvLinkHandleField   = "LINK_HANDLE_FIELD"
	EnvLinkScopes        = "LINK_SCOPES"
	EnvLinkRedirectHosts = "LINK_REDIRECT_HOSTS"
	EnvCommentFeedURL    = "COMMENT_FEED_URL"
	EnvPollSchedule      = "POLL_SCHEDULE"
	EnvRedisURL          = "REDIS_URL"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// parseEnv overlays non-empty environment values onto config.
// TOKEN_TTL accepts a Go duration ("45m") or a bare number of seconds.
func parseEnv(config *Config, lookup LookupFunc) error {
	get := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			setString(dst, v)
		}
	}

	get(EnvHTTPAddr, &config.HTTPAddr)
	get(EnvDatabaseDSN, &config.DatabaseDSN)
	get(EnvTokenSecret, &config.TokenSecret)
	get(EnvLogLevel, &config.LogLevel)
	get(EnvLinkClientID, &config.Link.ClientID)
	get(EnvLinkClientSecret, &config.Link.ClientSecret)
	get(EnvLinkAuthURL, &config.Link.AuthURL)
	get(EnvLinkTokenURL, &config.Link.TokenURL)
	get(EnvLinkUserInfoURL, &config.Link.UserInfoURL)
	get(EnvLinkRedirectURL, &config.Link.RedirectURL)
	get(EnvLinkHandleField, &config.Link.HandleField)
	get(EnvCommentFeedURL, &config.CommentFeedURL)
	get(EnvPollSchedule, &config.PollSchedule)
	get(EnvRedisURL, &config.RedisURL)

	if v, ok := lookup(EnvLinkScopes); ok && strings.TrimSpace(v) != "" {
		config.Link.Scopes = splitList(v)
	}
	if v, ok := lookup(EnvLinkRedirectHosts); ok && strings.TrimSpace(v) != "" {
		config.Link.RedirectHosts = splitList(v)
	}

	if v, ok := lookup(EnvTokenTTL); ok && strings.TrimSpace(v) != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenTTL, err)
		}
		config.TokenTTL = d
	}

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
