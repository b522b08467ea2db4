package domain

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("usuario no encontrado")

// User is created lazily on the first inbound message from a new identity
// and never deleted. Identity is an opaque channel handle (a Telegram chat
// ID, a WhatsApp phone address).
type User struct {
	Identity string `json:"identity"`
	// Preferences is a placeholder for future per-user settings.
	Preferences map[string]string `json:"preferences,omitempty"`
}

type UserRepository interface {
	// Ensure returns the user for identity, creating it if unknown.
	Ensure(ctx context.Context, identity string) (*User, error)
	Identities(ctx context.Context) ([]string, error)
}
