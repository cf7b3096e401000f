package stubstore

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/models"
)

// Handler exposes the in-memory store over the same REST+SSE surface the
// hosted backend speaks, so the agent can be pointed at it unchanged.
type Handler struct {
	store  *Store
	logger *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Route("/api/scopes/{tenant}/{branch}/records", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.insert)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Get("/feed", h.feed)
	})

	return router
}

func scopeFromRequest(r *http.Request) models.Scope {
	return models.Scope{
		Tenant: chi.URLParam(r, "tenant"),
		Branch: chi.URLParam(r, "branch"),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)
	if scope.IsZero() {
		http.Error(w, "missing scope", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, h.store.List(scope))
}

func (h *Handler) insert(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)

	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "invalid record payload", http.StatusBadRequest)
		return
	}

	stored := h.store.Insert(scope, record)
	h.logger.Debug().
		Str("scope", scope.Key()).
		Str("id", stored.ID).
		Msg("record inserted")

	h.writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid update payload", http.StatusBadRequest)
		return
	}

	if !h.store.Update(scope, id, req.Fields, req.UpdatedAt) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)
	id := chi.URLParam(r, "id")

	if !h.store.Delete(scope, id) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// feed streams the scope's change events as server-sent events until the
// client disconnects.
func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	scope := scopeFromRequest(r)
	events, cancel := h.store.Subscribe(scope)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Debug().Str("scope", scope.Key()).Msg("change feed subscriber connected")

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to encode change event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
