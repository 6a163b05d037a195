package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"steelleads-go/internal/model"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Create(ctx context.Context, run model.PipelineRun) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pipeline_runs (id, status, started_at) VALUES ($1, $2, $3)`,
		run.ID, run.Status, run.StartedAt)
	return err
}

func (r *RunRepository) Finish(ctx context.Context, run model.PipelineRun) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE pipeline_runs
		SET status = $2, finished_at = $3,
			fetched = $4, duplicates = $5, qualified = $6, rejected = $7, failed = $8
		WHERE id = $1`,
		run.ID, run.Status, run.FinishedAt,
		run.Fetched, run.Duplicates, run.Qualified, run.Rejected, run.Failed)
	return err
}
