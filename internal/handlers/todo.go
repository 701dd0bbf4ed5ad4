package handlers

import (
	"context"
	"net/http"
	"time"

	"todolist/internal/models"
)

const healthTimeout = 2 * time.Second

// Create stores body.message under a freshly generated id.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(body, "message"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	message := lookup(body, "message")
	todo := models.Todo{
		ID:   h.newID(),
		Text: message.String(),
	}

	if err := h.store.Set(ctx, todo.ID, todo.Text); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Debug("todo created", "id", todo.ID)
	respondJSON(w, entry(todo.ID, message))
}

// Read returns the whole collection.
func (h *Handlers) Read(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.All(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if todos == nil {
		todos = models.Collection{}
	}

	respondJSON(w, todos)
}

// Update replaces the text of body.id with body.message. The id is not
// required to exist; an unknown id is created.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(body, "message", "id"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	message := lookup(body, "message")
	todo := models.Todo{
		ID:   lookup(body, "id").String(),
		Text: message.String(),
	}

	if err := todo.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Set(ctx, todo.ID, todo.Text); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Debug("todo updated", "id", todo.ID)
	respondJSON(w, entry(todo.ID, message))
}

// Delete removes body.id. Unknown ids are ignored.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(body, "id"); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := lookup(body, "id").String()
	if err := h.store.Delete(ctx, id); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Debug("todo deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}

// Health reports whether the store is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "err", err)
		respondStatusJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	respondJSON(w, map[string]string{"status": "ok"})
}
