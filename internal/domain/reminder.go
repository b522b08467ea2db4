package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrReminderNotFound = errors.New("recordatorio no encontrado")
	ErrReminderEmpty    = errors.New("el texto del recordatorio no puede estar vacío")
)

// Reminder is a locally persisted note delivered once at DueAt.
// Reminders are never deleted: Done flips false→true exactly once and the
// record stays behind as an audit trail.
type Reminder struct {
	ID    string    `json:"id"`
	Owner string    `json:"owner"`
	Text  string    `json:"text"`
	DueAt time.Time `json:"due_at"`
	Done  bool      `json:"done"`
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	GetPending(ctx context.Context, now time.Time) ([]*Reminder, error)
	// MarkDone retires a delivered batch with a single persisted write.
	MarkDone(ctx context.Context, ids []string) error
	ListUpcoming(ctx context.Context, owner string, until time.Time) ([]*Reminder, error)
}
