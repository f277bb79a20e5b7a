// Package web serves the to-do page to a browser.
//
// Every page load refreshes the list once. Each mutation renders the page
// from the single refresh that followed it, so no action fetches twice.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/utils"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	// Registry receives the HTTP metrics and backs /metrics. A nil registry
	// gets a fresh one with Go and process collectors.
	Registry *prometheus.Registry
}

// Server is the browser front end.
type Server struct {
	app      *app.App
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *httpMetrics
	tmpl     *template.Template
	router   *mux.Router
}

// NewRegistry returns a registry preloaded with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New builds the server around a.
func New(a *app.App, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"itemData": newItemData,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		app:      a,
		logger:   logger,
		registry: reg,
		metrics:  newHTTPMetrics(reg),
		tmpl:     tmpl,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.addTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/complete", s.completeTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/delete", s.deleteTask).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Use(requestID, securityHeaders, s.observe, csrf)
	s.router = r
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.logger.Info("web front end listening", "url", "http://"+ln.Addr().String())
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return utils.Serve(ctx, srv, ln)
}
