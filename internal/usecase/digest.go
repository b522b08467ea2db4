package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agendabot/internal/domain"
)

const (
	digestCalendarDown = "(no se pudo leer el calendario)"
	digestEmpty        = "(ninguno)"
)

// DigestBuilder composes the rolling 24-hour summary for one identity. It
// never fails: a broken calendar collaborator degrades to a placeholder
// line instead of an error.
type DigestBuilder struct {
	calendar  domain.CalendarProvider
	reminders domain.ReminderRepository
	loc       *time.Location
	now       func() time.Time
}

func NewDigestBuilder(calendar domain.CalendarProvider, reminders domain.ReminderRepository, loc *time.Location) *DigestBuilder {
	if loc == nil {
		loc = time.Local
	}
	return &DigestBuilder{
		calendar:  calendar,
		reminders: reminders,
		loc:       loc,
		now:       time.Now,
	}
}

// Digest renders the next-24h events and pending reminders for identity.
func (b *DigestBuilder) Digest(ctx context.Context, identity string) string {
	now := b.now()
	until := now.Add(24 * time.Hour)

	var sb strings.Builder
	sb.WriteString("Resumen de las próximas 24 horas\n\nEventos:\n")

	events, err := b.calendar.List(ctx, now, until)
	switch {
	case err != nil:
		slog.Warn("no se pudo listar el calendario para el resumen", "identity", identity, "error", err)
		sb.WriteString(digestCalendarDown + "\n")
	case len(events) == 0:
		sb.WriteString(digestEmpty + "\n")
	default:
		for _, ev := range events {
			sb.WriteString(b.line(ev.Start, ev.Summary))
		}
	}

	sb.WriteString("\nRecordatorios:\n")

	pending, err := b.reminders.ListUpcoming(ctx, identity, until)
	if err != nil {
		slog.Warn("no se pudieron listar los recordatorios para el resumen", "identity", identity, "error", err)
		pending = nil
	}
	if len(pending) == 0 {
		sb.WriteString(digestEmpty + "\n")
	} else {
		for _, r := range pending {
			sb.WriteString(b.line(r.DueAt, r.Text))
		}
	}

	return sb.String()
}

func (b *DigestBuilder) line(t time.Time, title string) string {
	return fmt.Sprintf("%s — %s\n", t.In(b.loc).Format("02/01 15:04"), title)
}
