// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Shivanand-hulikatti/event-registry/internal/model"
	"github.com/Shivanand-hulikatti/event-registry/internal/service"
	"github.com/rs/zerolog"
)

// Status strings returned to clients.
const (
	statusSuccess       = "success"
	statusDeleted       = "deleted"
	statusFound         = "found"
	statusUpdated       = "updated"
	statusEventNotFound = "event_not_found"
)

// EventHandler holds all HTTP handlers for the registry API.
type EventHandler struct {
	svc    *service.EventService
	logger zerolog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func writeStatus(w http.ResponseWriter, status string) {
	writeJSON(w, http.StatusOK, model.StatusResponse{Status: status})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// fail writes a 400 for bad input and a 500 for anything else.
func (h *EventHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListEvents handles GET /events
// Returns every event with its current participant count.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.EventsResponse{Events: h.svc.ListEvents(r.Context())})
}

// AddEvent handles POST /add_event
func (h *EventHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req model.AddEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.AddEvent(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, statusSuccess)
}

// DeleteEvent handles POST /delete_event
// Always answers "deleted", even when nothing matched.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, statusDeleted)
}

// Register handles POST /register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, result.String())
}

// Search handles POST /search
func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	participants, found, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		writeStatus(w, statusEventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, model.SearchResponse{Status: statusFound, Participants: participants})
}

// UpdateEvent handles POST /update_event
// Omitted fields are left unchanged.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.svc.UpdateEvent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !updated {
		writeStatus(w, statusEventNotFound)
		return
	}
	writeStatus(w, statusUpdated)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
