// Package api exposes HTTP handlers for the signup service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/activities", h.listActivities)
	mux.HandleFunc("/activities/", h.activityAction)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", h.root)
}

// root redirects to the static frontend. The mux falls through to "/" for
// any path no other pattern claims, so unknown paths 404 here.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := make(map[string]ActivityView, len(activities))
	for _, activity := range activities {
		resp[activity.Name] = toActivityView(activity)
	}
	writeJSON(w, http.StatusOK, resp)
}

// activityAction handles POST /activities/{name}/signup and
// POST /activities/{name}/unregister. Activity names may contain spaces,
// which arrive percent-encoded and are already decoded in r.URL.Path.
func (h *Handler) activityAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/activities/")
	name, action, ok := strings.Cut(rest, "/")
	if !ok || name == "" {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	email := r.URL.Query().Get("email")

	switch action {
	case "signup":
		h.signup(w, r, name, email)
	case "unregister":
		h.unregister(w, r, name, email)
	default:
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, name, email string) {
	if err := h.service.Signup(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request, name, email string) {
	if err := h.service.Unregister(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, domain.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, "validation_failed", "Student is already signed up for this activity")
	case errors.Is(err, domain.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, "validation_failed", "Student is not signed up for this activity")
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "validation_failed", "email parameter is required")
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// ActivityView exposes an activity with its roster.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	SpotsLeft       int      `json:"spots_left"`
}

// MessageResponse is the confirmation body for roster mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityView{
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
		SpotsLeft:       activity.SpotsLeft(),
	}
}
