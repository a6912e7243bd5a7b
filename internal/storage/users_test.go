package storage

import (
	"context"
	"errors"
	"testing"
)

// TestNormalizeLogin verifies tailnet and CLI logins map to one spelling.
func TestNormalizeLogin(t *testing.T) {
	tests := []struct{ in, want string }{
		{"alice@example.com", "alice@example.com"},
		{"  Alice@Example.com\n", "alice@example.com"},
		{"local", "local"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := normalizeLogin(tt.in); got != tt.want {
			t.Errorf("normalizeLogin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestGetOrCreateUserEmptyLogin verifies a blank login is rejected before
// any query runs.
func TestGetOrCreateUserEmptyLogin(t *testing.T) {
	var db *DB
	if _, err := db.GetOrCreateUser(context.Background(), " \t", "Nobody"); !errors.Is(err, ErrEmptyLogin) {
		t.Errorf("err = %v, want ErrEmptyLogin", err)
	}
}
