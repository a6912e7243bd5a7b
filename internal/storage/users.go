package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyLogin is returned when a user is looked up without a login.
var ErrEmptyLogin = errors.New("empty login")

// GetOrCreateUser maps a login to a user ID, creating the user on first sight.
// Logins are case-insensitive. Each call refreshes last_seen, and a non-empty
// displayName replaces the stored one.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	login = normalizeLogin(login)
	if login == "" {
		return 0, ErrEmptyLogin
	}

	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, strings.TrimSpace(displayName)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %s: %w", login, err)
	}
	return id, nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
