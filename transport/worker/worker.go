package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"agendabot/internal/domain"
)

// Dispatcher sweeps the reminder store on a fixed cadence and delivers due
// reminders. Delivery is at most once: a failed send is logged and the
// reminder is retired anyway, never re-queued.
type Dispatcher struct {
	reminders domain.ReminderRepository
	messenger domain.Messenger
	interval  time.Duration
	now       func() time.Time

	mu sync.Mutex
}

func NewDispatcher(reminders domain.ReminderRepository, messenger domain.Messenger, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		reminders: reminders,
		messenger: messenger,
		interval:  interval,
		now:       time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Tick(ctx, d.now())
			}
		}
	}()
}

// Tick is one sweep: select due, deliver, retire the whole batch with a
// single persisted write. The batch is a critical section with respect to
// concurrent inserts.
func (d *Dispatcher) Tick(ctx context.Context, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, err := d.reminders.GetPending(ctx, now)
	if err != nil {
		slog.Error("no se pudieron obtener los recordatorios pendientes", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	ids := make([]string, 0, len(pending))
	for _, reminder := range pending {
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := d.messenger.Send(sendCtx, reminder.Owner, "Recordatorio: "+reminder.Text, "")
		cancel()
		if err != nil {
			slog.Warn("no se pudo entregar el recordatorio",
				"id", reminder.ID, "owner", reminder.Owner, "error", err)
		}
		ids = append(ids, reminder.ID)
	}

	if err := d.reminders.MarkDone(ctx, ids); err != nil {
		slog.Error("no se pudieron retirar los recordatorios entregados", "error", err)
	}
}
