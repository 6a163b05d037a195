package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"steelleads-go/internal/services/pipeline"
)

type Scheduler struct {
	cron    *cron.Cron
	service *pipeline.Service
	spec    string
}

func New(spec string, service *pipeline.Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		spec:    spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("scheduled pipeline run triggered")
		go s.service.Run(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
