package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"todolist/internal/models"
)

// CreateTask adds a task from the add form. A blank title is ignored.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	priority, err := models.ParsePriority(r.FormValue("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	m.Add(r.Context(), r.FormValue("title"), r.FormValue("description"), priority)

	h.respondMutation(w, r, m)
}

// SetTaskCompleted sets or clears the completed flag of an ongoing task.
func (h *Handlers) SetTaskCompleted(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	m.SetCompleted(r.Context(), chi.URLParam(r, "id"), parseChecked(r.FormValue("completed")))

	h.respondMutation(w, r, m)
}

// SetTaskPriority reassigns the priority of an ongoing task.
func (h *Handlers) SetTaskPriority(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	priority, err := models.ParsePriority(r.FormValue("priority"))
	if err != nil || strings.TrimSpace(r.FormValue("priority")) == "" {
		respondError(w, http.StatusBadRequest, "priority must be 'high', 'medium', or 'low'")
		return
	}

	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	m.SetPriority(r.Context(), chi.URLParam(r, "id"), priority)

	h.respondMutation(w, r, m)
}

// DeleteTask moves an ongoing task to the deleted panel.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	m.Delete(r.Context(), chi.URLParam(r, "id"))

	h.respondMutation(w, r, m)
}

// parseChecked interprets a checkbox form value. An absent value is unchecked.
func parseChecked(v string) bool {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "on") {
		return true
	}
	checked, err := strconv.ParseBool(v)
	return err == nil && checked
}
