// Package web serves the lead dashboard: a single rendered page plus the
// static assets it loads. All table data comes from the JSON API.
package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/* static/*
var files embed.FS

type Handler struct {
	tmpl *template.Template
}

func NewHandler() (*Handler, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{tmpl: tmpl}, nil
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.handleIndex)
	r.Handle("/static/*", http.FileServer(http.FS(files)))
	return r
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "index.html", nil); err != nil {
		log.Printf("[web] render index: %v", err)
	}
}
