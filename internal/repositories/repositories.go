package repositories

import (
	"context"
	"errors"

	"steelleads-go/internal/model"
)

var ErrNotFound = errors.New("record not found")

type LeadRepository interface {
	// CreateIfNotExists inserts a lead unless one with the same title exists.
	// The bool reports whether a row was created.
	CreateIfNotExists(ctx context.Context, input model.LeadCreate) (model.Lead, bool, error)
	// List returns all leads, newest first.
	List(ctx context.Context) ([]model.Lead, error)
}

type HeadlineRepository interface {
	Exists(ctx context.Context, headline string) (bool, error)
	Add(ctx context.Context, headline string) error
	// Recent returns up to limit headlines, most recently sent first.
	Recent(ctx context.Context, limit int) ([]string, error)
}

type RunRepository interface {
	Create(ctx context.Context, run model.PipelineRun) error
	Finish(ctx context.Context, run model.PipelineRun) error
}
