package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steelleads-go/internal/model"
)

type fakeLeadRepo struct {
	mu    sync.Mutex
	leads []model.Lead
}

func (f *fakeLeadRepo) CreateIfNotExists(_ context.Context, input model.LeadCreate) (model.Lead, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lead := range f.leads {
		if lead.Title == input.Title {
			return model.Lead{}, false, nil
		}
	}
	lead := model.Lead{
		ID:        int32(len(f.leads) + 1),
		Title:     input.Title,
		Company:   input.Company,
		Urgency:   input.Urgency,
		CreatedAt: time.Now(),
	}
	f.leads = append(f.leads, lead)
	return lead, true, nil
}

func (f *fakeLeadRepo) List(context.Context) ([]model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Lead{}, f.leads...), nil
}

type fakeHeadlineRepo struct {
	mu        sync.Mutex
	headlines []string
}

func (f *fakeHeadlineRepo) Exists(_ context.Context, headline string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.headlines {
		if h == headline {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHeadlineRepo) Add(_ context.Context, headline string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headlines = append(f.headlines, headline)
	return nil
}

func (f *fakeHeadlineRepo) Recent(_ context.Context, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.headlines) > limit {
		return append([]string{}, f.headlines[:limit]...), nil
	}
	return append([]string{}, f.headlines...), nil
}

type fakeRunRepo struct {
	mu       sync.Mutex
	created  []model.PipelineRun
	finished []model.PipelineRun
}

func (f *fakeRunRepo) Create(_ context.Context, run model.PipelineRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, run)
	return nil
}

func (f *fakeRunRepo) Finish(_ context.Context, run model.PipelineRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, run)
	return nil
}

type fakeQualifier struct {
	duplicates map[string]bool
	verdicts   map[string]model.Qualification
	qualifyErr map[string]error
}

func (f *fakeQualifier) IsDuplicateHeadline(_ context.Context, headline string, _ []string) (bool, error) {
	return f.duplicates[headline], nil
}

func (f *fakeQualifier) Qualify(_ context.Context, news model.ContractNews) (model.Qualification, error) {
	if err := f.qualifyErr[news.Title]; err != nil {
		return model.Qualification{}, err
	}
	return f.verdicts[news.Title], nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []model.Lead
}

func (f *fakeNotifier) SendAlert(lead model.Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, lead)
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
}

func (f *fakeCache) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

type staticSource struct {
	name  string
	items []model.ContractNews
	err   error
	block chan struct{}
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context) ([]model.ContractNews, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func TestRunProcessesItems(t *testing.T) {
	leads := &fakeLeadRepo{}
	headlines := &fakeHeadlineRepo{headlines: []string{"Old headline"}}
	runs := &fakeRunRepo{}
	notifier := &fakeNotifier{}
	cache := &fakeCache{}

	qualifier := &fakeQualifier{
		duplicates: map[string]bool{"Semantically old news": true},
		verdicts: map[string]model.Qualification{
			"Fresh qualified lead": {Qualified: true, Tag: "Infrastructure-Contract_Won", Urgency: "high"},
			"Unqualified item":     {Qualified: false, Reasoning: "IT services deal"},
		},
		qualifyErr: map[string]error{"Broken item": errors.New("model down")},
	}

	source := &staticSource{name: "test", items: []model.ContractNews{
		{Title: "Old headline"},
		{Title: "Semantically old news"},
		{Title: "Unqualified item"},
		{Title: "Broken item"},
		{Title: "Fresh qualified lead", Company: "NCC Limited"},
	}}

	svc := NewService(Deps{
		Leads:     leads,
		Headlines: headlines,
		Runs:      runs,
		Qualifier: qualifier,
		Notifier:  notifier,
		Sources:   []Source{source},
		Cache:     cache,
	})

	svc.Run(context.Background())

	stored, err := leads.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Fresh qualified lead", stored[0].Title)

	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "NCC Limited", notifier.alerts[0].Company)

	assert.Contains(t, headlines.headlines, "Fresh qualified lead")
	assert.NotContains(t, headlines.headlines, "Unqualified item",
		"only alerted headlines join the dedup set")

	assert.Equal(t, 2, cache.invalidated,
		"once when the lead is stored and once at end of run")

	require.Len(t, runs.finished, 1)
	run := runs.finished[0]
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, 5, run.Fetched)
	assert.Equal(t, 2, run.Duplicates)
	assert.Equal(t, 1, run.Qualified)
	assert.Equal(t, 1, run.Rejected)
	assert.Equal(t, 1, run.Failed)
}

func TestRunSkipsWhenAlreadyRunning(t *testing.T) {
	block := make(chan struct{})
	source := &staticSource{name: "slow", block: block}

	leads := &fakeLeadRepo{}
	svc := NewService(Deps{
		Leads:     leads,
		Headlines: &fakeHeadlineRepo{},
		Qualifier: &fakeQualifier{},
		Sources:   []Source{source},
	})

	require.NoError(t, svc.Start())

	require.Eventually(t, svc.Running, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, svc.Start(), ErrAlreadyRunning)

	close(block)
	require.Eventually(t, func() bool { return !svc.Running() }, time.Second, 5*time.Millisecond)

	// A finished run releases the slot for the next trigger.
	require.NoError(t, svc.Start())
	require.Eventually(t, func() bool { return !svc.Running() }, time.Second, 5*time.Millisecond)
}

func TestRunSourceFailureDoesNotAbort(t *testing.T) {
	failing := &staticSource{name: "down", err: errors.New("boom")}
	working := &staticSource{name: "up", items: []model.ContractNews{{Title: "Good lead", Company: "KEC"}}}

	leads := &fakeLeadRepo{}
	svc := NewService(Deps{
		Leads:     leads,
		Headlines: &fakeHeadlineRepo{},
		Qualifier: &fakeQualifier{verdicts: map[string]model.Qualification{
			"Good lead": {Qualified: true},
		}},
		Sources: []Source{failing, working},
	})

	svc.Run(context.Background())

	stored, err := leads.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
