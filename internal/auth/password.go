// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Keeps login timing constant-shape for unknown emails via a dummy hash

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email doesn't resolve to a user,
// so the login path costs one bcrypt comparison whether or not the account
// exists. This prevents timing attacks that could enumerate registered emails.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns the bcrypt hash of a raw password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the raw password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// burnComparison performs a throwaway bcrypt comparison to maintain constant
// timing on failure paths where no real hash is available.
func burnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
