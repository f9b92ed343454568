// ABOUTME: API token persistence operations for the SQLite store
// ABOUTME: Stores the hashed secret binding records for issued bearer tokens

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAPIToken inserts a new token binding record. The plaintext secret is
// never stored, only its hash.
func (s *SQLiteStore) CreateAPIToken(ctx context.Context, token *APIToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	q := `
		INSERT INTO api_tokens (id, user_id, name, secret_hash, last_used_at, created_at)
		VALUES (?, ?, ?, ?, NULL, ?)
	`

	_, err := s.db.ExecContext(ctx, q,
		token.ID,
		token.UserID,
		token.Name,
		token.SecretHash,
		token.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting api token: %w", err)
	}

	s.logger.Debug("created api token", "id", token.ID, "user", token.UserID)
	return nil
}

// GetAPIToken retrieves a token binding by its ID.
// Returns ErrNotFound if the token doesn't exist (absent or revoked).
func (s *SQLiteStore) GetAPIToken(ctx context.Context, id string) (*APIToken, error) {
	q := `
		SELECT id, user_id, name, secret_hash, last_used_at, created_at
		FROM api_tokens
		WHERE id = ?
	`

	var token APIToken
	var lastUsedAt sql.NullString
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.SecretHash,
		&lastUsedAt,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying api token: %w", err)
	}

	if lastUsedAt.Valid {
		t, err := time.Parse(time.RFC3339, lastUsedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last_used_at: %w", err)
		}
		token.LastUsedAt = &t
	}
	token.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &token, nil
}

// TouchAPIToken records that a token was just used. Best effort; callers
// ignore the error.
func (s *SQLiteStore) TouchAPIToken(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE api_tokens SET last_used_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching api token: %w", err)
	}
	return nil
}

// DeleteAPIToken revokes a token by removing its binding record.
// Returns ErrNotFound if the token doesn't exist.
func (s *SQLiteStore) DeleteAPIToken(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting api token: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("revoked api token", "id", id)
	return nil
}

// ListAPITokensForUser returns a user's token bindings, newest first.
// Used by the admin CLI.
func (s *SQLiteStore) ListAPITokensForUser(ctx context.Context, userID string) ([]*APIToken, error) {
	q := `
		SELECT id, user_id, name, secret_hash, last_used_at, created_at
		FROM api_tokens
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying api tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*APIToken
	for rows.Next() {
		var token APIToken
		var lastUsedAt sql.NullString
		var createdAtStr string
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.Name,
			&token.SecretHash,
			&lastUsedAt,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning api token: %w", err)
		}
		if lastUsedAt.Valid {
			if t, err := time.Parse(time.RFC3339, lastUsedAt.String); err == nil {
				token.LastUsedAt = &t
			}
		}
		token.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		tokens = append(tokens, &token)
	}

	return tokens, rows.Err()
}
