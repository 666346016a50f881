package handlers

import (
	"encoding/json"
	"net/http"

	"todolist/internal/models"
)

// TaskListResponse mirrors the persisted layout of both sequences.
type TaskListResponse struct {
	Tasks        []models.Task `json:"tasks"`
	DeletedTasks []models.Task `json:"deletedTasks"`
}

// ListTasks returns the active and deleted sequences as JSON.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	resp := TaskListResponse{Tasks: m.Tasks(), DeletedTasks: m.DeletedTasks()}
	if resp.Tasks == nil {
		resp.Tasks = []models.Task{}
	}
	if resp.DeletedTasks == nil {
		resp.DeletedTasks = []models.Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		respondServerError(w, err)
	}
}
