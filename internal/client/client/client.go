package client

import (
	"context"
)

// Client is the API surface of the handlekeeper server as the CLI sees it.
type Client interface {
	Register(ctx context.Context, handle string, secret []byte) error
	Login(ctx context.Context, handle string, secret []byte) error
	WhoAmI(ctx context.Context) (*User, error)
	CreateProject(ctx context.Context, title, content string) (*Project, error)
	Projects(ctx context.Context) ([]Project, error)
	Profile(ctx context.Context, handle string) (*Profile, error)
	LinkURL(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Token() string
	SetToken(token string)
}

var _ Client = (*HTTPClient)(nil)
