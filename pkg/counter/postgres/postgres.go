package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const visitorsRowID = 1

type Store struct {
	db *pgxpool.Pool
}

// New connects to the database and makes sure the visitors table exists.
func New(ctx context.Context, conStr string) (*Store, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}
	s := Store{
		db: db,
	}

	_, err = s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY,
			count BIGINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

// Increment adds one to the counter in a single statement, creating the row
// on first use, and returns the new value.
func (s *Store) Increment(ctx context.Context) (count int64, err error) {
	err = s.db.QueryRow(ctx, `
		INSERT INTO visitors (id, count)
		VALUES ($1, 1)
		ON CONFLICT (id)
		DO UPDATE SET count = visitors.count + 1
		RETURNING count
	`,
		visitorsRowID,
	).Scan(&count)

	return
}

// Read returns the counter value, zero if nobody visited yet.
func (s *Store) Read(ctx context.Context) (count int64, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT count FROM visitors WHERE id = $1
	`,
		visitorsRowID,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}

	return
}
