package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/metrics"
	"github.com/MikeSquared-Agency/brief/internal/prompt"
	"github.com/MikeSquared-Agency/brief/internal/session"
)

// Generator runs the two stateless model operations.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, p prompt.Payload) (string, error)
	Summarize(ctx context.Context, fileName, content string) (string, error)
}

type Deps struct {
	Sessions       *session.Manager
	Generator      Generator
	Locales        *locale.Store
	Metrics        *metrics.Recorder
	Logger         *slog.Logger
	MaxUploadBytes int64
}

type Server struct {
	router *chi.Mux
	port   int
	http   *http.Server

	sessions  *session.Manager
	generator Generator
	locales   *locale.Store
	metrics   *metrics.Recorder
	logger    *slog.Logger
	maxUpload int64
}

func NewServer(port int, d Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 10 << 20
	}

	s := &Server{
		router:    router,
		port:      port,
		sessions:  d.Sessions,
		generator: d.Generator,
		locales:   d.Locales,
		metrics:   d.Metrics,
		logger:    d.Logger,
		maxUpload: d.MaxUploadBytes,
	}

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	router.Post("/api/generate-email", s.generateEmail)
	router.Post("/api/summarize-file", s.summarizeFile)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Get("/locales/{tag}", s.localeTable)
		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/events", s.postEvent)
			r.Post("/file", s.uploadFile)
			r.Delete("/file", s.removeFile)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	return s.http.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"service":  "brief",
		"provider": s.generator.Provider(),
		"locales":  locale.Supported,
	}
	if s.sessions != nil {
		body["sessions"] = s.sessions.Len()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) localeTable(w http.ResponseWriter, r *http.Request) {
	tag, err := locale.Parse(chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_locale", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.locales.Table(tag))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
