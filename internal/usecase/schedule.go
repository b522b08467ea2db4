package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agendabot/internal/config"
	"agendabot/internal/domain"
)

// EventScheduler creates calendar events from classified intents and arms
// the one-shot pre-event notification.
type EventScheduler struct {
	calendar  domain.CalendarProvider
	messenger domain.Messenger
	timers    *TimerQueue
	defaults  config.Defaults
	now       func() time.Time
}

func NewEventScheduler(calendar domain.CalendarProvider, messenger domain.Messenger, timers *TimerQueue, defaults config.Defaults) *EventScheduler {
	return &EventScheduler{
		calendar:  calendar,
		messenger: messenger,
		timers:    timers,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Schedule normalizes the intent's start, preserves the event duration when
// an end was given, delegates creation to the calendar collaborator and
// arms the pre-event notification for owner. originalText is the inbound
// utterance the date signals are read from.
func (s *EventScheduler) Schedule(ctx context.Context, intent domain.Intent, originalText, owner string) (*domain.CalendarEvent, error) {
	now := s.now()

	start, shift, err := NormalizeDate(intent.StartISO, originalText, now)
	if err != nil {
		return nil, fmt.Errorf("normalizar inicio: %w", err)
	}

	var end time.Time
	if intent.EndISO != "" {
		// Translate the end by the same shift the start received, so the
		// event keeps its duration.
		if rawEnd, perr := parseISO(intent.EndISO, now.Location()); perr == nil {
			end = rawEnd.Add(shift)
		}
	}
	if end.IsZero() {
		end = start.Add(s.defaults.EventDuration())
	}

	// Failsafe: never hand the calendar an instant that is not in the
	// future. The one-year jump is deliberate, matching the normalizer's
	// year semantics; any computed end is discarded.
	if !start.After(now) {
		start = start.AddDate(1, 0, 0)
		end = start.Add(s.defaults.EventDuration())
	}

	summary := intent.Summary
	if summary == "" {
		summary = s.defaults.EventSummary
	}
	description := intent.Description
	if description == "" {
		description = s.defaults.EventDescription
	}

	created, err := s.calendar.Insert(ctx, &domain.CalendarEvent{
		Summary:     summary,
		Description: description,
		Start:       start,
		End:         end,
		Attendees:   intent.Attendees,
	})
	if err != nil {
		return nil, fmt.Errorf("crear evento: %w", err)
	}

	s.armNotification(created, owner)
	return created, nil
}

// armNotification schedules the fixed-lead pre-event message. A fire time
// already in the past arms nothing: no immediate fire, no backfill.
func (s *EventScheduler) armNotification(event *domain.CalendarEvent, owner string) {
	fireAt := event.Start.Add(-s.defaults.EventLead())
	if !fireAt.After(s.now()) {
		return
	}

	lead := s.defaults.EventLeadMinutes
	text := fmt.Sprintf("Recordatorio: \"%s\" en %d minutos.", event.Summary, lead)
	s.timers.Schedule(event.ID, fireAt, func() {
		if err := s.messenger.Send(context.Background(), owner, text, ""); err != nil {
			slog.Warn("no se pudo enviar el aviso previo al evento",
				"event_id", event.ID, "owner", owner, "error", err)
		}
	})
}
