package auth

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// LinkState travels through the provider as the OAuth2 state parameter and
// brings the initiating account back to the callback.
type LinkState struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"accountId"`
	Handle    string `json:"handle"`
	Target    string `json:"target,omitempty"`
	Nonce     string `json:"nonce"`
}

// IssueLinkState signs a short-lived state token. target is stored
// base64url-encoded and may be empty.
func (m *TokenManager) IssueLinkState(accountID int64, handle, target string) (string, error) {
	nonce, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := m.now()
	st := LinkState{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Audience:  jwt.ClaimStrings{linkAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(LinkStateTTL)),
		},
		AccountID: accountID,
		Handle:    handle,
		Nonce:     nonce,
	}
	if target != "" {
		st.Target = base64.RawURLEncoding.EncodeToString([]byte(target))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, st).SignedString(m.secret)
}

// VerifyLinkState validates the state token and returns it with Target
// already decoded. Any failure wraps common.ErrInvalidState.
func (m *TokenManager) VerifyLinkState(state string) (*LinkState, error) {
	st := &LinkState{}
	if err := m.parse(state, st, linkAudience); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidState, err)
	}
	if st.AccountID <= 0 {
		return nil, fmt.Errorf("%w: missing account", common.ErrInvalidState)
	}

	if st.Target != "" {
		raw, err := base64.RawURLEncoding.DecodeString(st.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: bad target: %v", common.ErrInvalidState, err)
		}
		st.Target = string(raw)
	}
	return st, nil
}
