package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"steelleads-go/internal/cache"
	"steelleads-go/internal/config"
	"steelleads-go/internal/db"
	"steelleads-go/internal/httpapi"
	"steelleads-go/internal/llm"
	"steelleads-go/internal/providers/bse"
	"steelleads-go/internal/providers/newssites"
	"steelleads-go/internal/repositories"
	"steelleads-go/internal/repositories/postgres"
	"steelleads-go/internal/scheduler"
	"steelleads-go/internal/services/pipeline"
	"steelleads-go/internal/telegram"
	"steelleads-go/internal/web"
)

type Builder struct {
	cfg          *config.Config
	basePath     string
	ensureSchema bool

	pool      *pgxpool.Pool
	redis     *redis.Client
	leads     repositories.LeadRepository
	headlines repositories.HeadlineRepository
	runs      repositories.RunRepository
	notifier  pipeline.Notifier
	qualifier pipeline.Qualifier
	sources   []pipeline.Source
	client    *http.Client

	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{
		cfg:          cfg,
		ensureSchema: true,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithBasePath(basePath string) BuilderOption {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

func WithEnsureSchema(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.ensureSchema = enabled
	}
}

func WithDBPool(pool *pgxpool.Pool) BuilderOption {
	return func(b *Builder) {
		b.pool = pool
	}
}

func WithRedisClient(client *redis.Client) BuilderOption {
	return func(b *Builder) {
		b.redis = client
	}
}

func WithLeadRepository(repo repositories.LeadRepository) BuilderOption {
	return func(b *Builder) {
		b.leads = repo
	}
}

func WithHeadlineRepository(repo repositories.HeadlineRepository) BuilderOption {
	return func(b *Builder) {
		b.headlines = repo
	}
}

func WithRunRepository(repo repositories.RunRepository) BuilderOption {
	return func(b *Builder) {
		b.runs = repo
	}
}

func WithNotifier(notifier pipeline.Notifier) BuilderOption {
	return func(b *Builder) {
		b.notifier = notifier
	}
}

func WithQualifier(qualifier pipeline.Qualifier) BuilderOption {
	return func(b *Builder) {
		b.qualifier = qualifier
	}
}

func WithSources(sources []pipeline.Source) BuilderOption {
	return func(b *Builder) {
		b.sources = sources
	}
}

func WithHTTPClient(client *http.Client) BuilderOption {
	return func(b *Builder) {
		b.client = client
	}
}

func WithScheduler(scheduler *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = scheduler
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}

	basePath := b.basePath
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		basePath = wd
	}

	app := &App{Config: b.cfg}
	if b.pool == nil {
		pool, err := db.NewPool(ctx, b.cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		b.pool = pool
		app.ownsPool = true
	}
	app.Pool = b.pool

	if b.ensureSchema {
		path, err := filepath.Abs(basePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, b.pool, path); err != nil {
			return nil, err
		}
	}

	if b.leads == nil {
		b.leads = postgres.NewLeadRepository(b.pool)
	}
	app.Leads = b.leads
	if b.headlines == nil {
		b.headlines = postgres.NewHeadlineRepository(b.pool)
	}
	app.Headlines = b.headlines
	if b.runs == nil {
		b.runs = postgres.NewRunRepository(b.pool)
	}
	app.Runs = b.runs

	if b.redis == nil && b.cfg.RedisAddr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     b.cfg.RedisAddr,
			Password: b.cfg.RedisPassword,
		})
		app.ownsRedis = true
	}
	app.Redis = b.redis

	var leadCache *cache.Leads
	if b.redis != nil {
		leadCache = cache.NewLeads(b.redis)
	}

	if b.notifier == nil {
		if b.cfg.TelegramEnabled() {
			b.notifier = telegram.NewSender(b.cfg.TelegramToken, b.cfg.TelegramChat, b.cfg.TelegramThreadID)
		} else {
			b.notifier = telegram.NopSender{}
		}
	}
	app.Notifier = b.notifier

	if b.client == nil {
		b.client = &http.Client{Timeout: 30 * time.Second}
	}

	if b.qualifier == nil {
		b.qualifier = llm.NewClient(b.cfg.DeepSeekAPIKey, b.cfg.GeminiAPIKey)
	}

	if b.sources == nil {
		extractor, ok := b.qualifier.(newssites.Extractor)
		if !ok {
			return nil, errors.New("qualifier does not support news extraction")
		}
		b.sources = []pipeline.Source{
			bse.NewScraper(b.client),
			newssites.NewScraper(b.client, extractor),
		}
	}
	app.Sources = b.sources

	deps := pipeline.Deps{
		Leads:     app.Leads,
		Headlines: app.Headlines,
		Runs:      app.Runs,
		Qualifier: b.qualifier,
		Notifier:  app.Notifier,
		Sources:   app.Sources,
		Timeout:   b.cfg.PipelineTimeout,
	}
	if leadCache != nil {
		deps.Cache = leadCache
	}
	app.Pipeline = pipeline.NewService(deps)

	if b.scheduler == nil && b.cfg.CronSpec != "" {
		b.scheduler = scheduler.New(b.cfg.CronSpec, app.Pipeline)
	}
	app.Scheduler = b.scheduler

	if b.server == nil {
		dashboard, err := web.NewHandler()
		if err != nil {
			return nil, err
		}

		var apiCache httpapi.Cache
		if leadCache != nil {
			apiCache = leadCache
		}
		handler := httpapi.NewHandler(app.Pipeline, app.Leads, apiCache, dashboard.Router(), b.cfg.CORSOrigins)
		b.server = &http.Server{
			Addr:              ":" + b.cfg.HTTPPort,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	app.Server = b.server

	return app, nil
}
