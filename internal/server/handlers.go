package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"sepri/internal/auth"
	"sepri/internal/checklist"
	"sepri/internal/domain"
	"sepri/internal/forms"
)

// RevisionHeader carries the revision of the collection in a response.
const RevisionHeader = "X-Content-Revision"

func (a *API) handleCollection(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			payload, err := a.collections.Get(r.Context(), kind)
			if err != nil {
				a.internalError(w, r, "get collection", err)
				return
			}
			if rev, err := a.collections.Revision(r.Context(), kind); err == nil {
				w.Header().Set(RevisionHeader, strconv.FormatInt(rev.Revision, 10))
			} else {
				a.logger.Warn("read revision", "kind", kind, "error", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)

		case http.MethodPost:
			claims, ok := a.authorize(w, r, domain.RoleAdmin, domain.RoleCreator)
			if !ok {
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					respondError(w, http.StatusRequestEntityTooLarge, "payload too large, reduce image size")
					return
				}
				respondError(w, http.StatusBadRequest, "could not read body")
				return
			}

			rev, err := a.collections.Replace(r.Context(), kind, body)
			if errors.Is(err, domain.ErrValidation) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err != nil {
				a.internalError(w, r, "replace collection", err)
				return
			}

			a.logger.Info("collection replaced",
				"kind", kind,
				"revision", rev.Revision,
				"by", claims.Email,
				"request_id", RequestIDFromContext(r.Context()),
			)
			w.Header().Set(RevisionHeader, strconv.FormatInt(rev.Revision, 10))
			respondJSON(w, http.StatusOK, map[string]bool{"success": true})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}

	email := auth.NormalizeEmail(req.Email)
	role, err := a.users.Authenticate(r.Context(), email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		a.internalError(w, r, "authenticate", err)
		return
	}

	token, err := a.tokens.Issue(&auth.Session{Email: email, Role: role, LoggedInAt: time.Now().UTC()})
	if err != nil {
		a.internalError(w, r, "issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, Role: role})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	password, err := a.users.ResetPassword(r.Context(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "reset password", err)
		return
	}

	a.logger.Info("password reset",
		"user_id", userID,
		"by", claimsFromContext(r.Context()).Email,
	)
	respondJSON(w, http.StatusOK, map[string]string{"password": password})
}

type checklistRequest struct {
	Answers domain.Answers `json:"answers"`
}

type checklistResponse struct {
	Steps     []domain.Step `json:"steps"`
	Triggered []string      `json:"triggered"`
}

func (a *API) handleChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !a.decode(w, r, &req) {
		return
	}

	p, err := a.collections.Protocol(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, domain.ErrNotFound) {
		respondError(w, http.StatusNotFound, "protocol not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "load protocol", err)
		return
	}

	steps := checklist.ComputeSteps(p, req.Answers, a.catalog)
	respondJSON(w, http.StatusOK, checklistResponse{
		Steps:     steps,
		Triggered: checklist.Triggered(p, steps),
	})
}

type renderRequest struct {
	Responses forms.Responses `json:"responses"`
}

func (a *API) handleRenderForm(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !a.decode(w, r, &req) {
		return
	}

	form, err := a.collections.Form(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, domain.ErrNotFound) {
		respondError(w, http.StatusNotFound, "form not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "load form", err)
		return
	}

	protocolTitle := form.EventID
	if p, err := a.collections.Protocol(r.Context(), form.EventID); err == nil {
		protocolTitle = p.Title
	}

	filename, body, err := forms.Render(form, protocolTitle, req.Responses)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

type chatRequest struct {
	History []domain.ChatMessage `json:"history"`
	Message string               `json:"message"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := a.assistant.GenerateReply(r.Context(), req.History, req.Message)
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// decode reads a JSON body of at most maxBody bytes into dst. It writes the
// error response itself and reports whether the handler may go on.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.maxBody)).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return false
	}
	respondError(w, http.StatusBadRequest, "invalid body")
	return false
}

func (a *API) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	a.logger.Error(op,
		"error", err,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	)
	respondError(w, http.StatusInternalServerError, "internal error")
}
