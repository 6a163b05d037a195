package app

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"steelleads-go/internal/config"
	"steelleads-go/internal/repositories"
	"steelleads-go/internal/scheduler"
	"steelleads-go/internal/services/pipeline"
)

type App struct {
	Config    *config.Config
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Leads     repositories.LeadRepository
	Headlines repositories.HeadlineRepository
	Runs      repositories.RunRepository
	Notifier  pipeline.Notifier
	Sources   []pipeline.Source
	Pipeline  *pipeline.Service
	Scheduler *scheduler.Scheduler
	Server    *http.Server

	ownsPool  bool
	ownsRedis bool
}

func (a *App) Start() error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(); err != nil {
			return err
		}
	}

	go func() {
		log.Printf("HTTP server listening on %s", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	if a.ownsRedis && a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}
	if a.ownsPool {
		a.Pool.Close()
	}
	return nil
}
