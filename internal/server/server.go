// Package server exposes the content collections, authentication, the
// checklist engine, form rendering and the assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"sepri/internal/auth"
	"sepri/internal/checklist"
	"sepri/internal/domain"
)

type Collections interface {
	Get(ctx context.Context, kind domain.Kind) (json.RawMessage, error)
	Replace(ctx context.Context, kind domain.Kind, body []byte) (*domain.Revision, error)
	Revision(ctx context.Context, kind domain.Kind) (*domain.Revision, error)
	Protocol(ctx context.Context, id string) (domain.Protocol, error)
	Form(ctx context.Context, id string) (domain.FormTemplate, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Role, error)
	ResetPassword(ctx context.Context, userID string) (string, error)
}

type TokenIssuer interface {
	Issue(s *auth.Session) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type Assistant interface {
	GenerateReply(ctx context.Context, history []domain.ChatMessage, message string) string
}

type API struct {
	router      *mux.Router
	collections Collections
	users       Authenticator
	tokens      TokenIssuer
	assistant   Assistant
	catalog     checklist.Catalog
	maxBody     int64
	logger      *slog.Logger
}

type Options struct {
	Catalog      checklist.Catalog
	MaxBodyBytes int64
}

func NewAPI(
	collections Collections,
	users Authenticator,
	tokens TokenIssuer,
	assistant Assistant,
	opts Options,
	logger *slog.Logger,
) *API {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}

	a := &API{
		router:      mux.NewRouter(),
		collections: collections,
		users:       users,
		tokens:      tokens,
		assistant:   assistant,
		catalog:     opts.Catalog,
		maxBody:     opts.MaxBodyBytes,
		logger:      logger.With("component", "server"),
	}
	a.routes()
	return a
}

func (a *API) routes() {
	r := a.router
	r.Use(a.requestIDMiddleware())
	r.Use(a.loggingMiddleware())

	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)
	api.Handle("/auth/users/{id}/reset-password",
		a.requireRole(domain.RoleCreator)(http.HandlerFunc(a.handleResetPassword)),
	).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/checklist", a.handleChecklist).Methods(http.MethodPost)
	api.HandleFunc("/forms/{id}/render", a.handleRenderForm).Methods(http.MethodPost)
	api.HandleFunc("/chat", a.handleChat).Methods(http.MethodPost)

	for _, kind := range domain.Kinds {
		api.HandleFunc("/"+kind.Endpoint(), a.handleCollection(kind))
	}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
