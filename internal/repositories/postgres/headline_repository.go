package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HeadlineRepository struct {
	pool *pgxpool.Pool
}

func NewHeadlineRepository(pool *pgxpool.Pool) *HeadlineRepository {
	return &HeadlineRepository{pool: pool}
}

func (r *HeadlineRepository) Exists(ctx context.Context, headline string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sent_headlines WHERE headline = $1)`, headline,
	).Scan(&exists)
	return exists, err
}

func (r *HeadlineRepository) Add(ctx context.Context, headline string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sent_headlines (headline) VALUES ($1) ON CONFLICT (headline) DO NOTHING`, headline)
	return err
}

func (r *HeadlineRepository) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT headline FROM sent_headlines ORDER BY sent_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	headlines := []string{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		headlines = append(headlines, h)
	}
	return headlines, rows.Err()
}
