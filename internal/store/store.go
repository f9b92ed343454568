// ABOUTME: Data types and sentinel errors for taskhub persistence
// ABOUTME: Defines User, Project, Task, APIToken structs shared across the store

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that is already taken
var ErrDuplicateEmail = errors.New("email already taken")

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never appear in API responses.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project is a container for tasks, owned by exactly one user.
// The owner reference is immutable after creation.
type Project struct {
	ID        string
	OwnerID   string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Tasks is populated only when the query requested the tasks include.
	Tasks []*Task
}

// OwnedBy returns the owning user ID for authorization checks.
func (p *Project) OwnedBy() string { return p.OwnerID }

// Task is a unit of work created by a user, optionally attached to a project.
type Task struct {
	ID        string
	CreatorID string
	ProjectID *string // nil when the task belongs to no project
	Title     string
	IsDone    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy returns the creating user ID for authorization checks.
func (t *Task) OwnedBy() string { return t.CreatorID }

// APIToken is the server-side binding record for an issued bearer token.
// Only a SHA-256 hash of the token secret is retained; the plaintext is
// returned to the client exactly once at issuance.
type APIToken struct {
	ID         string
	UserID     string
	Name       string
	SecretHash string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// TaskUpdate describes a partial update to a task. Nil fields are left unchanged.
type TaskUpdate struct {
	Title  *string
	IsDone *bool
}
