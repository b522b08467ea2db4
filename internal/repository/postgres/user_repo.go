package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agendabot/internal/domain"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (u *UserRepository) Ensure(ctx context.Context, identity string) (*domain.User, error) {
	insert := `INSERT INTO users (identity) VALUES ($1) ON CONFLICT (identity) DO NOTHING`
	if _, err := u.db.Exec(ctx, insert, identity); err != nil {
		return nil, err
	}

	query := `SELECT identity FROM users WHERE identity = $1`
	user := &domain.User{}
	err := u.db.QueryRow(ctx, query, identity).Scan(&user.Identity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserRepository) Identities(ctx context.Context) ([]string, error) {
	query := `SELECT identity FROM users ORDER BY identity`
	rows, err := u.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	identities := make([]string, 0, 10)
	for rows.Next() {
		var identity string
		if err := rows.Scan(&identity); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return identities, nil
}
