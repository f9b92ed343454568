// ABOUTME: Package documentation for the store package
// ABOUTME: Describes the data model and SQLite configuration

// Package store provides persistent storage for taskhub using SQLite.
//
// # Data Models
//
//   - User: registered account with a unique email and bcrypt password hash
//   - Project: task container owned by exactly one user (owner is immutable)
//   - Task: unit of work with a completion flag, optionally attached to a project
//   - APIToken: server-side binding record for an issued bearer token; only the
//     SHA-256 hash of the token secret is retained
//
// # Consistency
//
// Email uniqueness is enforced by a unique index rather than a check-then-insert
// pair, so concurrent duplicate registrations cannot race. Deleting a project
// deletes its tasks through an ON DELETE CASCADE foreign key. List queries run
// their count and page-slice statements inside one read transaction so
// pagination metadata always agrees with the returned rows.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Timestamps are stored as RFC 3339 UTC strings, which sort correctly as text.
package store
