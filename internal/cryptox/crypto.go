// Package cryptox hashes and verifies account passwords for the story API.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a freshly generated password salt.
const SaltSize = 16

// DeriveKey stretches password with argon2id into a 32-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the derived hash of password under a new random salt.
func HashPassword(password string) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey([]byte(password), salt), salt
}

// VerifyPassword reports whether password derives to hash under salt. The
// comparison is constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	candidate := DeriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
