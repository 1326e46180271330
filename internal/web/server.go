package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/navigation"
)

//go:embed help.md
var helpMD string

// Options configures a Server.
type Options struct {
	Port        int
	Delay       time.Duration
	DefaultPath string
	// Logs are exposed under /api/errors/{name}, keyed by short name
	// ("app", "boundary", "loading").
	Logs   map[string]*errlog.Log
	Clock  clock.Clock
	Logger *slog.Logger
}

// Server exposes one navigation coordinator and the error logs over HTTP.
type Server struct {
	router *navigation.MemoryRouter
	nav    *navigation.Coordinator
	logs   map[string]*errlog.Log
	logger *slog.Logger
	server *http.Server

	requests    atomic.Int64
	lastRequest atomic.Time
}

// NewServer creates a server whose coordinator starts at the default path.
func NewServer(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = 8080
	}
	if opts.DefaultPath == "" {
		opts.DefaultPath = navigation.DefaultPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		router: navigation.NewMemoryRouter(opts.DefaultPath),
		logs:   opts.Logs,
		logger: opts.Logger.With("component", "web"),
	}
	s.nav = navigation.New(s.router, navigation.Options{
		Delay:       opts.Delay,
		DefaultPath: opts.DefaultPath,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
	})
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/navigate", s.handleNavigate).Methods(http.MethodPost)
	api.HandleFunc("/back", s.handleBack).Methods(http.MethodPost)
	api.HandleFunc("/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	api.HandleFunc("/errors/{log}", s.handleErrors).Methods(http.MethodGet)
	api.HandleFunc("/errors/{log}", s.handleClearErrors).Methods(http.MethodDelete)
	api.HandleFunc("/help", handleHelp).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Start listens until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting web server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

// Stop cancels any pending navigation and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.nav.Cleanup()
	return s.server.Shutdown(ctx)
}

// Coordinator exposes the coordinator behind the API.
func (s *Server) Coordinator() *navigation.Coordinator {
	return s.nav
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Inc()
		s.lastRequest.Store(time.Now())
		next.ServeHTTP(w, r)
	})
}

// StateResponse is the JSON form of the navigation state.
type StateResponse struct {
	CurrentPath    string    `json:"currentPath"`
	IsLoading      bool      `json:"isLoading"`
	LoadingMessage string    `json:"loadingMessage,omitempty"`
	IsBlocked      bool      `json:"isBlocked"`
	Pending        bool      `json:"pending"`
	History        []string  `json:"history"`
	Requests       int64     `json:"requests"`
	LastRequest    time.Time `json:"lastRequest"`
	Version        string    `json:"version"`
}

func (s *Server) state() StateResponse {
	st := s.nav.State()
	history := st.History
	if history == nil {
		history = []string{}
	}
	return StateResponse{
		CurrentPath:    st.CurrentPath,
		IsLoading:      st.IsLoading,
		LoadingMessage: st.LoadingMessage,
		IsBlocked:      st.IsBlocked,
		Pending:        st.Pending,
		History:        history,
		Requests:       s.requests.Load(),
		LastRequest:    s.lastRequest.Load(),
		Version:        model.Version,
	}
}

// NavigateRequest is the body of POST /api/navigate.
type NavigateRequest struct {
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// NavigateResponse reports whether a transition was started.
type NavigateResponse struct {
	Accepted bool          `json:"accepted"`
	State    StateResponse `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(req.Path, "/") {
		http.Error(w, "path must start with /", http.StatusBadRequest)
		return
	}
	accepted := s.nav.NavigateWithLoading(req.Path, req.Message)
	s.respondTransition(w, accepted)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.respondTransition(w, s.nav.GoBack())
}

// respondTransition answers 202 for a started transition and 409 for one
// dropped because another is in flight.
func (s *Server) respondTransition(w http.ResponseWriter, accepted bool) {
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, NavigateResponse{Accepted: accepted, State: s.state()})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.nav.CancelNavigation()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.nav.History()
	if history == nil {
		history = []string{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.nav.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupLog(w http.ResponseWriter, r *http.Request) (*errlog.Log, bool) {
	name := mux.Vars(r)["log"]
	l, ok := s.logs[name]
	if !ok {
		http.Error(w, "unknown log: "+name, http.StatusNotFound)
	}
	return l, ok
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupLog(w, r)
	if !ok {
		return
	}
	entries, err := l.Entries(r.Context())
	if err != nil {
		s.logger.Error("read error log", "log", l.Key(), "error", err)
		http.Error(w, "failed to read log", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []model.ErrorRecord{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearErrors(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupLog(w, r)
	if !ok {
		return
	}
	if err := l.Clear(r.Context()); err != nil {
		s.logger.Error("clear error log", "log", l.Key(), "error", err)
		http.Error(w, "failed to clear log", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
