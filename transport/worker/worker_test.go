package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendabot/internal/domain"
)

var baseTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type memoryRepo struct {
	mu        sync.Mutex
	reminders []*domain.Reminder
	marked    int
}

func (m *memoryRepo) Create(ctx context.Context, reminder *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, reminder)
	return nil
}

func (m *memoryRepo) GetPending(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*domain.Reminder
	for _, r := range m.reminders {
		if !r.Done && !r.DueAt.After(now) {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (m *memoryRepo) MarkDone(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked++
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, r := range m.reminders {
		if set[r.ID] {
			r.Done = true
		}
	}
	return nil
}

func (m *memoryRepo) ListUpcoming(ctx context.Context, owner string, until time.Time) ([]*domain.Reminder, error) {
	return nil, nil
}

type recordingMessenger struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (r *recordingMessenger) Send(ctx context.Context, identity, text, mediaURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[identity] {
		return errors.New("entrega fallida")
	}
	r.sent = append(r.sent, identity+": "+text)
	return nil
}

func TestDispatcher_DeliversExactlyOnce(t *testing.T) {
	repo := &memoryRepo{}
	msgr := &recordingMessenger{}
	d := NewDispatcher(repo, msgr, time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Reminder{
		ID: "r1", Owner: "u1", Text: "comprar pan", DueAt: baseTime.Add(30 * time.Minute),
	}))

	// Antes del vencimiento no entrega nada.
	d.Tick(ctx, baseTime)
	assert.Empty(t, msgr.sent)

	d.Tick(ctx, baseTime.Add(31*time.Minute))
	require.Len(t, msgr.sent, 1)
	assert.Equal(t, "u1: Recordatorio: comprar pan", msgr.sent[0])

	// Un barrido posterior no vuelve a entregar.
	d.Tick(ctx, baseTime.Add(40*time.Minute))
	assert.Len(t, msgr.sent, 1)
}

func TestDispatcher_FailedDeliveryStillRetires(t *testing.T) {
	repo := &memoryRepo{}
	msgr := &recordingMessenger{failFor: map[string]bool{"caido": true}}
	d := NewDispatcher(repo, msgr, time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Reminder{
		ID: "r1", Owner: "caido", Text: "se pierde", DueAt: baseTime,
	}))
	require.NoError(t, repo.Create(ctx, &domain.Reminder{
		ID: "r2", Owner: "u1", Text: "llega", DueAt: baseTime,
	}))

	d.Tick(ctx, baseTime.Add(time.Minute))

	// La entrega fallida no bloquea al resto y el recordatorio igual se
	// retira: semántica de a-lo-sumo-una-vez.
	require.Len(t, msgr.sent, 1)
	assert.Equal(t, "u1: Recordatorio: llega", msgr.sent[0])

	pending, err := repo.GetPending(ctx, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcher_PersistsOncePerBatch(t *testing.T) {
	repo := &memoryRepo{}
	msgr := &recordingMessenger{}
	d := NewDispatcher(repo, msgr, time.Second)
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, repo.Create(ctx, &domain.Reminder{
			ID: id, Owner: "u1", Text: id, DueAt: baseTime,
		}))
	}

	d.Tick(ctx, baseTime.Add(time.Minute))

	assert.Len(t, msgr.sent, 3)
	assert.Equal(t, 1, repo.marked)
}

func TestDispatcher_EmptySweepDoesNotPersist(t *testing.T) {
	repo := &memoryRepo{}
	d := NewDispatcher(repo, &recordingMessenger{}, time.Second)

	d.Tick(context.Background(), baseTime)

	assert.Equal(t, 0, repo.marked)
}
