// Package api provides HTTP handlers and the main API server logic for the
// onboarding wizard.
//
// It exposes RESTful endpoints for creating onboarding conversations,
// inspecting their state, and submitting answer turns. The API integrates
// with the wizard, classify, and store modules.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/leadpilot/outreachwizard/internal/classify"
	"github.com/leadpilot/outreachwizard/internal/store"
	"github.com/leadpilot/outreachwizard/internal/wizard"
)

// DefaultAddr is the address the API server listens on when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the HTTP surface to the step engine and the store.
type Server struct {
	st     store.Store
	engine *wizard.Engine
	addr   string
}

// NewServer creates an API server over the given store and engine.
func NewServer(st store.Store, engine *wizard.Engine, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{st: st, engine: engine, addr: cfg.Addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/onboarding/conversations", s.conversationsHandler)
	mux.HandleFunc("/onboarding/conversations/", s.conversationHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run constructs the store, classifier, engine, and server from the provided
// module options and serves until the listener fails.
func Run(storeOpts []store.Option, classifyOpts []classify.Option, apiOpts []Option) error {
	st, err := store.New(storeOpts...)
	if err != nil {
		slog.Error("api.Run: failed to create store", "error", err)
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	var classifier classify.Classifier
	if client, err := classify.NewClient(classifyOpts...); err != nil {
		slog.Warn("api.Run: remote classifier unavailable, using local classifier", "error", err)
		classifier = classify.NewLocalClassifier()
	} else {
		classifier = client
	}

	srv := NewServer(st, wizard.NewEngine(classifier), apiOpts...)
	slog.Info("api.Run: starting API server", "addr", srv.addr)
	return http.ListenAndServe(srv.addr, srv.Handler())
}
