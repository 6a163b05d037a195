package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"steelleads-go/internal/model"
	"steelleads-go/internal/repositories"
	"steelleads-go/internal/services/pipeline"
)

// Runner is the slice of the pipeline service the API needs.
type Runner interface {
	Start() error
	Running() bool
}

// Cache is the read-through lead cache used by the listing endpoints.
type Cache interface {
	Get(ctx context.Context) ([]model.Lead, bool)
	Set(ctx context.Context, leads []model.Lead)
}

type Handler struct {
	service     Runner
	leads       repositories.LeadRepository
	cache       Cache
	dashboard   http.Handler
	corsOrigins []string
}

func NewHandler(service Runner, leads repositories.LeadRepository, cache Cache, dashboard http.Handler, corsOrigins []string) *Handler {
	return &Handler{
		service:     service,
		leads:       leads,
		cache:       cache,
		dashboard:   dashboard,
		corsOrigins: corsOrigins,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/pipeline_status", h.handlePipelineStatus)
		r.Get("/projects", h.handleListProjects)
		r.Get("/projects/{index}", h.handleGetProject)
		r.Post("/run_pipeline", h.handleRunPipeline)
	})

	if h.dashboard != nil {
		r.Mount("/", h.dashboard)
	}

	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/block", pprof.Handler("block").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
		r.Get("/mutex", pprof.Handler("mutex").ServeHTTP)
		r.Get("/threadcreate", pprof.Handler("threadcreate").ServeHTTP)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handlePipelineStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"running": h.service.Running()})
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	leads, err := h.listLeads(r)
	if err != nil {
		log.Printf("[httpapi] list projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to load projects",
		})
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	leads, err := h.listLeads(r)
	if err != nil {
		log.Printf("[httpapi] get project: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to load projects",
		})
		return
	}
	if index >= len(leads) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, leads[index])
}

func (h *Handler) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Start(); err != nil {
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status":  "error",
				"message": "Pipeline is already running",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Pipeline started successfully",
	})
}

func (h *Handler) listLeads(r *http.Request) ([]model.Lead, error) {
	ctx := r.Context()

	if h.cache != nil {
		if leads, ok := h.cache.Get(ctx); ok {
			return leads, nil
		}
	}

	leads, err := h.leads.List(ctx)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	if h.cache != nil {
		h.cache.Set(ctx, leads)
	}
	return leads, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
