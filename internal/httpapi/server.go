package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader carries the webhook secret on every Telegram delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateBytes = 1 << 20

// UpdateHandler accepts decoded Telegram updates.
type UpdateHandler interface {
	HandleUpdate(tgbotapi.Update)
}

// Options configures the HTTP surface.
type Options struct {
	WebhookPath string
	SecretToken string
	Version     string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server serves the Telegram webhook plus health and metrics endpoints.
type Server struct {
	updates UpdateHandler
	opts    Options
	started time.Time
}

// NewServer creates a Server.
func NewServer(updates UpdateHandler, opts Options) *Server {
	return &Server{updates: updates, opts: opts, started: time.Now()}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(slog.Default()))

	router.Get("/healthz", s.healthCheck)
	if s.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	if s.opts.WebhookPath != "" {
		router.Post(s.opts.WebhookPath, s.webhook)
	}
	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr, "webhook_path", s.opts.WebhookPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

// webhook always answers 200 once the secret matches, even for bodies it
// cannot decode. Telegram retries anything else.
func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		slog.Warn("Webhook secret mismatch", "remote_addr", r.RemoteAddr,
			"request_id", chimiddleware.GetReqID(r.Context()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		slog.Warn("Failed to decode webhook update", "error", err,
			"request_id", chimiddleware.GetReqID(r.Context()))
		w.WriteHeader(http.StatusOK)
		return
	}

	s.updates.HandleUpdate(update)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.opts.SecretToken == "" {
		return true
	}
	got := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.SecretToken)) == 1
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "healthy",
		Version: s.opts.Version,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}
