// ABOUTME: Package documentation for the auth package
// ABOUTME: Covers credentials, opaque tokens, identity plumbing, and the guard

// Package auth implements taskhub's authentication and authorization layer.
//
// # Credentials
//
// Passwords are stored as bcrypt hashes. Login failures cost one bcrypt
// comparison whether the email exists or not (a dummy hash is burned for
// unknown emails) and always return ErrInvalidCredentials, so response shape
// and timing give no enumeration oracle.
//
// # Tokens
//
// Bearer tokens are opaque: the plaintext "<id>|<secret>" is returned to the
// client exactly once at issuance, and only the SHA-256 hash of the secret is
// persisted. ResolveToken looks up the binding by ID and compares hashes in
// constant time. Tokens never expire; deleting the binding record (logout or
// admin revocation) is the only way to invalidate one. Multiple tokens may
// exist per user for multi-device use.
//
// # Identity and authorization
//
// Middleware authenticates requests and attaches an Identity to the request
// context. Identity is always threaded explicitly; there is no package-level
// current-user state. CanModify grants mutation only to a resource's owner,
// while reads are shared across all authenticated identities.
package auth
