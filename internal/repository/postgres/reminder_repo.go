package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agendabot/internal/domain"
)

type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{
		db: db,
	}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	query := `INSERT INTO reminders (id, owner, body, due_at, done)
						VALUES ($1, $2, $3, $4, false)`
	_, err := r.db.Exec(ctx, query, reminder.ID, reminder.Owner, reminder.Text, reminder.DueAt)
	return err
}

func (r *ReminderRepository) GetPending(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	query := `SELECT id, owner, body, due_at, done FROM reminders
						WHERE done = false AND due_at <= $1
						ORDER BY due_at`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]*domain.Reminder, 0, 10)
	for rows.Next() {
		reminder := &domain.Reminder{}
		if err := rows.Scan(&reminder.ID, &reminder.Owner, &reminder.Text, &reminder.DueAt, &reminder.Done); err != nil {
			return nil, err
		}
		pending = append(pending, reminder)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return pending, nil
}

func (r *ReminderRepository) MarkDone(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE reminders SET done = true WHERE id = ANY($1)`
	_, err := r.db.Exec(ctx, query, ids)
	return err
}

func (r *ReminderRepository) ListUpcoming(ctx context.Context, owner string, until time.Time) ([]*domain.Reminder, error) {
	query := `SELECT id, owner, body, due_at, done FROM reminders
						WHERE done = false AND owner = $1 AND due_at <= $2
						ORDER BY due_at`
	rows, err := r.db.Query(ctx, query, owner, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	upcoming := make([]*domain.Reminder, 0, 10)
	for rows.Next() {
		reminder := &domain.Reminder{}
		if err := rows.Scan(&reminder.ID, &reminder.Owner, &reminder.Text, &reminder.DueAt, &reminder.Done); err != nil {
			return nil, err
		}
		upcoming = append(upcoming, reminder)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return upcoming, nil
}
