package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore hashes and verifies passwords with bcrypt. Each hash carries
// its own random salt, so hashing the same password twice yields different
// strings that both verify.
type CredentialStore struct {
	cost int
	// dummy is compared against when the user does not exist. It has the
	// store's cost so both login failure paths take the same time.
	dummy []byte
}

// NewCredentialStore returns a store using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("issue-tracking-dummy-password"), cost)
	if err != nil {
		panic("bcrypt: " + err.Error())
	}
	return &CredentialStore{cost: cost, dummy: dummy}
}

// Hash returns the bcrypt hash of password.
func (c *CredentialStore) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", errors.New("password exceeds 72 bytes")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether password matches hash. A malformed hash is a
// mismatch, not an error.
func (c *CredentialStore) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnVerify performs a throwaway comparison and always returns false.
func (c *CredentialStore) BurnVerify(password string) bool {
	_ = bcrypt.CompareHashAndPassword(c.dummy, []byte(password))
	return false
}
