package security

import (
	"golang.org/x/crypto/bcrypt"
)

// AdminGuard authenticates admin requests against a bcrypt hash of the
// shared admin key. The plaintext key never lives in config.
type AdminGuard struct {
	keyHash []byte
}

func NewAdminGuard(keyHash string) *AdminGuard {
	return &AdminGuard{keyHash: []byte(keyHash)}
}

// Check reports whether the presented key matches the configured hash.
// An empty configured hash locks the admin surface entirely.
func (g *AdminGuard) Check(presented string) bool {
	if len(g.keyHash) == 0 || presented == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.keyHash, []byte(presented)) == nil
}
