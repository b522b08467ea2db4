package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agendabot/internal/domain"
)

// ReminderUsecase creates informal reminders due a fixed lead from now.
type ReminderUsecase struct {
	reminders domain.ReminderRepository
	lead      time.Duration
	now       func() time.Time
}

func NewReminderUsecase(reminders domain.ReminderRepository, lead time.Duration) *ReminderUsecase {
	return &ReminderUsecase{
		reminders: reminders,
		lead:      lead,
		now:       time.Now,
	}
}

// Add appends a new reminder for owner. Repeated identical requests create
// separate reminders; there is no deduplication.
func (u *ReminderUsecase) Add(ctx context.Context, owner, text string) (*domain.Reminder, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrReminderEmpty
	}

	now := u.now()
	reminder := &domain.Reminder{
		ID:    fmt.Sprintf("r%d", now.UnixNano()),
		Owner: owner,
		Text:  text,
		DueAt: now.Add(u.lead),
	}
	if err := u.reminders.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("guardar recordatorio: %w", err)
	}
	return reminder, nil
}
