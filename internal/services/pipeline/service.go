package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"steelleads-go/internal/model"
	"steelleads-go/internal/repositories"
)

var ErrAlreadyRunning = errors.New("pipeline is already running")

// recentHeadlineLimit bounds how many sent headlines are handed to the
// semantic dedup prompt.
const recentHeadlineLimit = 200

type Deps struct {
	Leads     repositories.LeadRepository
	Headlines repositories.HeadlineRepository
	Runs      repositories.RunRepository
	Qualifier Qualifier
	Notifier  Notifier
	Sources   []Source
	Cache     Invalidator
	Timeout   time.Duration
}

// Service runs the crawl-dedup-qualify-persist cycle. At most one run is
// active at a time; concurrent triggers are rejected.
type Service struct {
	deps Deps

	mu      sync.Mutex
	running bool
}

func NewService(deps Deps) *Service {
	if deps.Timeout <= 0 {
		deps.Timeout = 20 * time.Minute
	}
	return &Service{deps: deps}
}

func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches a run in the background. It returns ErrAlreadyRunning when a
// run is in flight.
func (s *Service) Start() error {
	if !s.acquire() {
		return ErrAlreadyRunning
	}
	go func() {
		defer s.release()
		ctx, cancel := context.WithTimeout(context.Background(), s.deps.Timeout)
		defer cancel()
		s.execute(ctx)
	}()
	return nil
}

// Run executes a run synchronously, skipping when one is already in flight.
// This is the scheduler's entry point.
func (s *Service) Run(ctx context.Context) {
	if !s.acquire() {
		log.Println("pipeline already running; skipping")
		return
	}
	defer s.release()

	runCtx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	s.execute(runCtx)
}

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

type sourceStats struct {
	fetched    int
	duplicates int
	qualified  int
	rejected   int
	failed     int
}

func (s *Service) execute(ctx context.Context) {
	run := model.PipelineRun{
		ID:        uuid.NewString(),
		Status:    model.RunStatusRunning,
		StartedAt: time.Now(),
	}
	log.Printf("pipeline run %s started", run.ID)

	if s.deps.Runs != nil {
		if err := s.deps.Runs.Create(ctx, run); err != nil {
			log.Printf("record run start: %v", err)
		}
	}

	type result struct {
		source string
		items  []model.ContractNews
	}

	results := make(chan result, len(s.deps.Sources))
	group, gctx := errgroup.WithContext(ctx)

	for _, source := range s.deps.Sources {
		src := source
		group.Go(func() error {
			log.Printf("[%s] fetching...", src.Name())
			items, err := src.Fetch(gctx)
			if err != nil {
				log.Printf("[%s] fetch failed: %v", src.Name(), err)
				results <- result{source: src.Name()}
				return nil
			}
			log.Printf("[%s] fetched %d news items", src.Name(), len(items))
			results <- result{source: src.Name(), items: items}
			return nil
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("pipeline fetch group error: %v", err)
	}
	close(results)

	stats := map[string]*sourceStats{}
	for res := range results {
		st := stats[res.source]
		if st == nil {
			st = &sourceStats{}
			stats[res.source] = st
		}
		st.fetched += len(res.items)

		for _, news := range res.items {
			s.processItem(ctx, res.source, news, st)
		}
	}

	if s.deps.Cache != nil {
		s.deps.Cache.Invalidate(ctx)
	}

	run.Status = model.RunStatusCompleted
	if ctx.Err() != nil {
		run.Status = model.RunStatusFailed
	}
	run.FinishedAt = time.Now()
	for source, st := range stats {
		log.Printf("[%s] summary: fetched=%d qualified=%d rejected=%d duplicates=%d failed=%d",
			source, st.fetched, st.qualified, st.rejected, st.duplicates, st.failed)
		run.Fetched += st.fetched
		run.Duplicates += st.duplicates
		run.Qualified += st.qualified
		run.Rejected += st.rejected
		run.Failed += st.failed
	}

	if s.deps.Runs != nil {
		if err := s.deps.Runs.Finish(context.WithoutCancel(ctx), run); err != nil {
			log.Printf("record run finish: %v", err)
		}
	}
	log.Printf("pipeline run %s %s: fetched=%d qualified=%d", run.ID, run.Status, run.Fetched, run.Qualified)
}

func (s *Service) processItem(ctx context.Context, source string, news model.ContractNews, st *sourceStats) {
	if news.Title == "" {
		st.failed++
		return
	}

	exists, err := s.deps.Headlines.Exists(ctx, news.Title)
	if err != nil {
		log.Printf("[%s] headline lookup failed: %v", source, err)
		st.failed++
		return
	}
	if exists {
		st.duplicates++
		return
	}

	recent, err := s.deps.Headlines.Recent(ctx, recentHeadlineLimit)
	if err != nil {
		log.Printf("[%s] recent headlines failed: %v", source, err)
		st.failed++
		return
	}
	if len(recent) > 0 {
		duplicate, err := s.deps.Qualifier.IsDuplicateHeadline(ctx, news.Title, recent)
		if err != nil {
			log.Printf("[%s] dedup check failed for %q: %v", source, news.Title, err)
			st.failed++
			return
		}
		if duplicate {
			st.duplicates++
			return
		}
	}

	qualification, err := s.deps.Qualifier.Qualify(ctx, news)
	if err != nil {
		log.Printf("[%s] qualification failed for %q: %v", source, news.Title, err)
		st.failed++
		return
	}
	if !qualification.Qualified {
		st.rejected++
		return
	}

	lead, created, err := s.deps.Leads.CreateIfNotExists(ctx, model.NewLeadCreate(news, qualification))
	if err != nil {
		log.Printf("[%s] insert failed for %q: %v", source, news.Title, err)
		st.failed++
		return
	}
	if !created {
		st.duplicates++
		return
	}

	// Each stored lead refreshes the listing so the polling dashboard sees it
	// before the run finishes.
	if s.deps.Cache != nil {
		s.deps.Cache.Invalidate(ctx)
	}

	if err := s.deps.Headlines.Add(ctx, news.Title); err != nil {
		log.Printf("[%s] record headline failed: %v", source, err)
	}

	st.qualified++
	if s.deps.Notifier != nil {
		s.deps.Notifier.SendAlert(lead)
	}
}
