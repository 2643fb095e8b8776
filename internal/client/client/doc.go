// Package client is the typed HTTP client the CLI uses to talk to the
// handlekeeper server.
//
// # Overview
//
// HTTPClient wraps the JSON endpoints (register, login, auth check,
// projects, profile lookup, health) and keeps the session token returned
// by Login, sending it as a bearer header on authenticated calls.
//
// # Error Handling
//
// Non-2xx responses become *APIError values that unwrap to sentinel errors,
// so callers can match with errors.Is: ErrBadRequest, ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrServer. Transport failures unwrap to
// ErrUnavailable.
package client
