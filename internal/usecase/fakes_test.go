package usecase

import (
	"context"
	"sync"
	"time"

	"agendabot/internal/domain"
)

type fakeCalendar struct {
	inserted  []*domain.CalendarEvent
	events    []*domain.CalendarEvent
	insertErr error
	listErr   error
}

func (f *fakeCalendar) Insert(ctx context.Context, event *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	created := *event
	created.ID = "ev-1"
	f.inserted = append(f.inserted, &created)
	return &created, nil
}

func (f *fakeCalendar) List(ctx context.Context, timeMin, timeMax time.Time) ([]*domain.CalendarEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

type sentMessage struct {
	identity string
	text     string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeMessenger) Send(ctx context.Context, identity, text, mediaURL string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{identity: identity, text: text})
	return nil
}

func (f *fakeMessenger) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

type fakeReminderRepo struct {
	reminders []*domain.Reminder
	createErr error
	listErr   error
}

func (f *fakeReminderRepo) Create(ctx context.Context, reminder *domain.Reminder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.reminders = append(f.reminders, reminder)
	return nil
}

func (f *fakeReminderRepo) GetPending(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	var pending []*domain.Reminder
	for _, r := range f.reminders {
		if !r.Done && !r.DueAt.After(now) {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (f *fakeReminderRepo) MarkDone(ctx context.Context, ids []string) error {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, r := range f.reminders {
		if set[r.ID] {
			r.Done = true
		}
	}
	return nil
}

func (f *fakeReminderRepo) ListUpcoming(ctx context.Context, owner string, until time.Time) ([]*domain.Reminder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var upcoming []*domain.Reminder
	for _, r := range f.reminders {
		if !r.Done && r.Owner == owner && !r.DueAt.After(until) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, nil
}

type fakeClassifier struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeClassifier) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
