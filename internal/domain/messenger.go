package domain

import "context"

// Messenger is the outbound messaging collaborator (WhatsApp Cloud API,
// Telegram). The identity is the same opaque handle stored on users and
// reminders. mediaURL may be empty.
type Messenger interface {
	Send(ctx context.Context, identity, text, mediaURL string) error
}
