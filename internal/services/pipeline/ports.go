package pipeline

import (
	"context"

	"steelleads-go/internal/model"
)

// Source produces raw contract news from one upstream (BSE, news sites).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.ContractNews, error)
}

// Qualifier runs the model-backed dedup and scoring tasks.
type Qualifier interface {
	IsDuplicateHeadline(ctx context.Context, headline string, recent []string) (bool, error)
	Qualify(ctx context.Context, news model.ContractNews) (model.Qualification, error)
}

type Notifier interface {
	SendAlert(lead model.Lead)
}

// Invalidator drops cached lead listings once a run changes the table.
type Invalidator interface {
	Invalidate(ctx context.Context)
}
