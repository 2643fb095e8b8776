package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionAudience = "session"
	linkAudience    = "link"

	// LinkStateTTL bounds the time between /auth/login and /auth/callback.
	LinkStateTTL = 10 * time.Minute
)

// Claims is the payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"accountId"`
	Handle    string `json:"handle"`
}

// TokenManager signs and verifies HS256 tokens with a server-held secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a signed session token for the account.
func (m *TokenManager) Issue(accountID int64, handle string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: accountID,
		Handle:    handle,
	})

	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm, audience and expiry. Expired tokens
// yield common.ErrTokenExpired; every other failure wraps
// common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims, sessionAudience); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.AccountID <= 0 || claims.Handle == "" {
		return nil, fmt.Errorf("%w: incomplete claims", common.ErrInvalidToken)
	}
	return claims, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
