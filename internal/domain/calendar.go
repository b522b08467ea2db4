package domain

import (
	"context"
	"time"
)

// CalendarEvent is the value object returned by the calendar collaborator
// after insertion. The subsystem does not own calendar data; it only uses
// these values for reminder arming and digest formatting.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

type CalendarProvider interface {
	Insert(ctx context.Context, event *CalendarEvent) (*CalendarEvent, error)
	// List returns events between timeMin and timeMax ordered by start time.
	List(ctx context.Context, timeMin, timeMax time.Time) ([]*CalendarEvent, error)
}
