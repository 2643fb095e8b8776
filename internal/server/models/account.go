package models

import "time"

// Account is a row of the accounts table. SecretHash never leaves the
// server: it has no JSON encoding and callers must not log it.
type Account struct {
	ID               int64
	Handle           string
	SecretHash       string
	ThirdPartyHandle *string
	CreatedAt        time.Time
}

// Profile is the public view of an account.
type Profile struct {
	ID               int64     `json:"id"`
	Handle           string    `json:"handle"`
	ThirdPartyHandle *string   `json:"thirdPartyHandle"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (a *Account) Profile() Profile {
	return Profile{
		ID:               a.ID,
		Handle:           a.Handle,
		ThirdPartyHandle: a.ThirdPartyHandle,
		CreatedAt:        a.CreatedAt,
	}
}
