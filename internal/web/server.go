// Package web provides the HTTP server and handlers for the prediction form.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evcraddock/price-estimator/internal/logging"
	"github.com/evcraddock/price-estimator/internal/options"
	"github.com/evcraddock/price-estimator/internal/predict"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds the server's collaborators.
type Config struct {
	Predictor  predict.Predictor
	Options    options.Options
	Listeners  []predict.Listener // attached to every session's form
	SessionTTL time.Duration
}

// Server is the web UI HTTP server.
type Server struct {
	opts      options.Options
	sessions  *sessionStore
	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a web server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	funcMap := template.FuncMap{
		"formatNumber": predict.FormatNumber,
		"formatPrice":  predict.FormatPrice,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	newForm := func() *predict.Controller {
		copts := make([]predict.Option, 0, len(cfg.Listeners))
		for _, l := range cfg.Listeners {
			copts = append(copts, predict.WithListener(l))
		}
		return predict.NewController(cfg.Predictor, cfg.Options, copts...)
	}

	s := &Server{
		opts:      cfg.Options,
		sessions:  newSessionStore(cfg.SessionTTL, newForm),
		templates: tmpl,
		mux:       http.NewServeMux(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/field", s.handleField)
	s.mux.HandleFunc("/predict", s.handlePredict)
	s.mux.HandleFunc("/", s.handleIndex)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           logging.RequestLogger(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down web UI")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
