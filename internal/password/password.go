// Package password verifies stored password credentials.
//
// Two encodings live in the users table: bcrypt strings for credentials
// issued by this codebase, and "<derived key hex>.<salt hex>" strings
// produced by the previous system's scrypt flow. Verify accepts both so that
// old accounts keep working without a flag day; Hash only ever issues bcrypt.
package password

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const bcryptCost = 12

// Legacy scrypt parameters. These must match what produced the stored rows;
// changing them silently breaks every legacy credential.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// Hash hashes a plaintext password with bcrypt. The output is self-contained
// (salt and cost are embedded) and goes straight into users.password_hash.
func Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", fmt.Errorf("password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether supplied matches the stored credential. It never
// panics and never returns an error: every failure mode of a malformed
// stored string (bad hex, wrong shape, truncated key) is just false.
// Distinguishing "wrong password" from "corrupt credential" in the result
// would itself leak information to the caller.
func Verify(supplied, stored string) bool {
	if isBcrypt(stored) {
		// bcrypt re-derives with the embedded salt/cost and compares in
		// constant time internally.
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}

	keyHex, saltHex, ok := splitLegacy(stored)
	if !ok {
		return false
	}
	return verifyScrypt(supplied, keyHex, saltHex)
}

// isBcrypt reports whether s carries a bcrypt signature prefix
// ($2a$, $2b$ or $2y$).
func isBcrypt(s string) bool {
	return len(s) >= 4 &&
		s[0] == '$' && s[1] == '2' &&
		(s[2] == 'a' || s[2] == 'b' || s[2] == 'y') &&
		s[3] == '$'
}

// splitLegacy splits a legacy "<key hex>.<salt hex>" credential. Exactly one
// separator with two non-empty hex components, or the classification fails.
func splitLegacy(stored string) (keyHex, saltHex string, ok bool) {
	if strings.Count(stored, ".") != 1 {
		return "", "", false
	}
	keyHex, saltHex, _ = strings.Cut(stored, ".")
	if keyHex == "" || saltHex == "" {
		return "", "", false
	}
	return keyHex, saltHex, true
}

func verifyScrypt(supplied, keyHex, saltHex string) bool {
	storedKey, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(supplied), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	// A truncated or corrupted stored key is a data-integrity problem, not a
	// mismatch candidate: subtle.ConstantTimeCompare returns 0 for unequal
	// lengths without comparing, so check explicitly to keep the semantics
	// obvious and the comparison operating on equal-length buffers only.
	if len(storedKey) != len(derived) {
		return false
	}

	return subtle.ConstantTimeCompare(storedKey, derived) == 1
}
