package common

const (
	// AuthorizationHeaderName carries the bearer token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"

	// MaxHandleLength is the upper bound on handle length, in characters.
	MaxHandleLength = 30

	// MinSecretLength is the lower bound on secret length, in characters.
	MinSecretLength = 8
)
