package auth

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored secret hashes.
const BcryptCost = 10

// Hasher hashes and checks account secrets with bcrypt.
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns common.ErrorInvalidCredentials on mismatch.
func (h *Hasher) Compare(hash, secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorInvalidCredentials
	}
	return err
}

// CompareDummy burns the same bcrypt work as Compare against a throwaway
// hash, so an unknown handle costs as much as a wrong secret.
func (h *Hasher) CompareDummy(secret string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(secret))
}
