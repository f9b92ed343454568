// ABOUTME: Opaque bearer token generation and verification
// ABOUTME: Plaintext is "<id>|<secret>"; only the secret's SHA-256 hash is stored

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
)

// tokenSecretBytes is the entropy of the random secret half of a token.
const tokenSecretBytes = 32

// GenerateToken creates a new opaque token. It returns the binding ID, the
// hash to persist, and the plaintext to hand to the client. The plaintext is
// not recoverable afterwards; only the hash survives server-side.
func GenerateToken() (id, secretHash, plaintext string, err error) {
	id = uuid.New().String()

	buf := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("generating token secret: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)

	return id, HashTokenSecret(secret), id + "|" + secret, nil
}

// HashTokenSecret returns the hex SHA-256 digest of a token secret.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// SplitToken breaks a plaintext token into its binding ID and secret.
// Returns ErrInvalidToken for anything that doesn't match the "<id>|<secret>"
// shape.
func SplitToken(plaintext string) (id, secret string, err error) {
	id, secret, ok := strings.Cut(plaintext, "|")
	if !ok || id == "" || secret == "" {
		return "", "", ErrInvalidToken
	}
	return id, secret, nil
}

// VerifyTokenSecret compares a presented secret against the stored hash in
// constant time.
func VerifyTokenSecret(storedHash, secret string) bool {
	presented := HashTokenSecret(secret)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(presented)) == 1
}
