package password

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// encodeLegacy produces a credential in the legacy "<key hex>.<salt hex>"
// format, the way the previous system wrote them.
func encodeLegacy(t *testing.T, plaintext string) string {
	t.Helper()

	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	key, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	require.NoError(t, err)

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt)
}

func TestVerifyLegacyScryptRoundTrip(t *testing.T) {
	stored := encodeLegacy(t, "correct horse battery staple")

	assert.True(t, Verify("correct horse battery staple", stored))
	assert.False(t, Verify("correct horse battery staplex", stored))
	assert.False(t, Verify("", stored))
}

func TestVerifyBcryptRoundTrip(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("s3cret-pass", string(hashed)))
	assert.False(t, Verify("wrong-pass", string(hashed)))
}

func TestHashVerifyRoundTrip(t *testing.T) {
	stored, err := Hash("brand-new-password")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored, "$2"))

	assert.True(t, Verify("brand-new-password", stored))
	assert.False(t, Verify("brand-new-passwor", stored))
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestVerifyMalformedStoredCredential(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"two separators", "dead.beef.cafe"},
		{"empty key", ".deadbeef"},
		{"empty salt", "deadbeef."},
		{"non-hex key", "zzzz.deadbeef"},
		{"non-hex salt", "deadbeef.zzzz"},
		{"not a credential at all", "not-a-valid-credential-format"},
		{"bcrypt-ish garbage", "$2a$garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("whatever", tt.stored))
		})
	}
}

func TestVerifyTruncatedDerivedKey(t *testing.T) {
	stored := encodeLegacy(t, "some password")

	// Chop the derived-key hex in half. The decoded key no longer matches the
	// derived length, which must fail cleanly rather than compare short
	// buffers or panic.
	keyHex, saltHex, ok := splitLegacy(stored)
	require.True(t, ok)
	truncated := keyHex[:len(keyHex)/2] + "." + saltHex

	assert.False(t, Verify("some password", truncated))
}

func TestIsBcrypt(t *testing.T) {
	assert.True(t, isBcrypt("$2a$12$abcdefghijklmnopqrstuv"))
	assert.True(t, isBcrypt("$2b$10$abcdefghijklmnopqrstuv"))
	assert.True(t, isBcrypt("$2y$10$abcdefghijklmnopqrstuv"))
	assert.False(t, isBcrypt("$1$md5crypt"))
	assert.False(t, isBcrypt("deadbeef.cafe"))
	assert.False(t, isBcrypt(""))
}
