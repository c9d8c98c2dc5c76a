package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// codeAlphabet is Crockford base32: no I, L, O, U, so codes survive being
// read aloud and typed back.
const codeAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// CodeLength is the length of a generated secret code.
const CodeLength = 12

// GenerateSecretCode creates a random one-time voting code. The plaintext is
// returned exactly once; callers must hash it before persisting anything.
func GenerateSecretCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// HashSecretCode computes the bcrypt hash of a plaintext code for storage.
func HashSecretCode(code string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret code: %w", err)
	}
	return string(hash), nil
}

// CompareSecretCode checks a presented plaintext code against the stored
// bcrypt hash. The comparison is constant-time. Returns false on mismatch;
// never returns the reason.
func CompareSecretCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
