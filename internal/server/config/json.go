package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/dmitrijs2005/handlekeeper/internal/flagx"
	"github.com/dmitrijs2005/handlekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "90s"-style strings or integer nanoseconds. Absent keys leave the
// current value untouched.
type JsonConfig struct {
	HTTPAddr         string          `json:"http_addr"`
	DatabaseDSN      string          `json:"database_dsn"`
	TokenSecret      string          `json:"token_secret"`
	TokenTTL         *timex.Duration `json:"token_ttl"`
	LogLevel         string          `json:"log_level"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	ProfileCacheSize int             `json:"profile_cache_size"`
	ProfileCacheTTL  *timex.Duration `json:"profile_cache_ttl"`
	CommentFeedURL   string          `json:"comment_feed_url"`
	PollSchedule     string          `json:"poll_schedule"`
	RedisURL         string          `json:"redis_url"`
	Link             *JsonLinkConfig `json:"link"`
}

type JsonLinkConfig struct {
	ClientID      string   `json:"client_id"`
	ClientSecret  string   `json:"client_secret"`
	AuthURL       string   `json:"auth_url"`
	TokenURL      string   `json:"token_url"`
	UserInfoURL   string   `json:"userinfo_url"`
	RedirectURL   string   `json:"redirect_url"`
	HandleField   string   `json:"handle_field"`
	Scopes        []string `json:"scopes"`
	RedirectHosts []string `json:"redirect_hosts"`
}

// parseJson overlays the file named by -c/-config onto config.
// It panics when the file cannot be read or decoded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.TokenSecret, c.TokenSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.CommentFeedURL, c.CommentFeedURL)
	setString(&config.PollSchedule, c.PollSchedule)
	setString(&config.RedisURL, c.RedisURL)

	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.ProfileCacheTTL != nil {
		config.ProfileCacheTTL = c.ProfileCacheTTL.Duration
	}
	if c.ProfileCacheSize > 0 {
		config.ProfileCacheSize = c.ProfileCacheSize
	}

	if l := c.Link; l != nil {
		setString(&config.Link.ClientID, l.ClientID)
		setString(&config.Link.ClientSecret, l.ClientSecret)
		setString(&config.Link.AuthURL, l.AuthURL)
		setString(&config.Link.TokenURL, l.TokenURL)
		setString(&config.Link.UserInfoURL, l.UserInfoURL)
		setString(&config.Link.RedirectURL, l.RedirectURL)
		setString(&config.Link.HandleField, l.HandleField)
		if len(l.Scopes) > 0 {
			config.Link.Scopes = l.Scopes
		}
		if len(l.RedirectHosts) > 0 {
			config.Link.RedirectHosts = l.RedirectHosts
		}
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
