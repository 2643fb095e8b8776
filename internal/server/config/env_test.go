package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func Test_parseEnv(t *testing.T) {
	env := map[string]string{
		EnvHTTPAddr:          ":9999",
		EnvDatabaseDSN:       "postgres://env",
		EnvTokenSecret:       "env-secret",
		EnvTokenTTL:          "45m",
		EnvLogLevel:          "error",
		EnvLinkClientID:      "cid",
		EnvLinkClientSecret:  "cs",
		EnvLinkAuthURL:       "https://p/auth",
		EnvLinkTokenURL:      "https://p/token",
		EnvLinkUserInfoURL:   "https://p/user",
		EnvLinkRedirectURL:   "http://localhost/auth/callback",
		EnvLinkHandleField:   "username",
		EnvLinkScopes:        "read:user, user:email ,",
		EnvLinkRedirectHosts: "app.example, localhost:3000",
		EnvCommentFeedURL:    "https://feed",
		EnvPollSchedule:      "*/10 * * * *",
		EnvRedisURL:          "redis://localhost:6379",
	}

	c := Config{}
	require.NoError(t, parseEnv(&c, mapLookup(env)))

	want := Config{
		HTTPAddr:    ":9999",
		DatabaseDSN: "postgres://env",
		TokenSecret: "env-secret",
		TokenTTL:    45 * time.Minute,
		LogLevel:    "error",
		Link: LinkConfig{
			ClientID:      "cid",
			ClientSecret:  "cs",
			AuthURL:       "https://p/auth",
			TokenURL:      "https://p/token",
			UserInfoURL:   "https://p/user",
			RedirectURL:   "http://localhost/auth/callback",
			HandleField:   "username",
			Scopes:        []string{"read:user", "user:email"},
			RedirectHosts: []string{"app.example", "localhost:3000"},
		},
		CommentFeedURL: "https://feed",
		PollSchedule:   "*/10 * * * *",
		RedisURL:       "redis://localhost:6379",
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func Test_parseEnv_TTLSeconds(t *testing.T) {
	c := Config{TokenTTL: time.Hour}
	require.NoError(t, parseEnv(&c, mapLookup(map[string]string{EnvTokenTTL: "120"})))
	assert.Equal(t, 2*time.Minute, c.TokenTTL)
}

func Test_parseEnv_BadTTL(t *testing.T) {
	c := Config{}
	err := parseEnv(&c, mapLookup(map[string]string{EnvTokenTTL: "forever"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTokenTTL)
}

func Test_parseEnv_EmptyValuesIgnored(t *testing.T) {
	c := Config{HTTPAddr: ":8080", TokenTTL: time.Hour}
	require.NoError(t, parseEnv(&c, mapLookup(map[string]string{EnvHTTPAddr: "  ", EnvTokenTTL: ""})))
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, time.Hour, c.TokenTTL)
}
