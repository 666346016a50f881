package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"todolist/internal/models"
	"todolist/internal/store"
	"todolist/internal/todo"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	stores    store.Provider
	templates *template.Template
	taskTTL   time.Duration
}

// New creates a new Handlers instance.
func New(p store.Provider, tmpl *template.Template, taskTTL time.Duration) *Handlers {
	return &Handlers{
		stores:    p,
		templates: tmpl,
		taskTTL:   taskTTL,
	}
}

// PageData holds data for the to-do card.
type PageData struct {
	Title        string
	Loading      bool
	Tasks        []models.Task
	DeletedTasks []models.Task
	Priorities   []models.Priority
}

// openManager builds a hydrated manager over the requesting browser's store.
func (h *Handlers) openManager(w http.ResponseWriter, r *http.Request) (*todo.Manager, error) {
	s, err := h.stores.Open(w, r)
	if err != nil {
		return nil, err
	}
	m := todo.NewManager(s, todo.WithExpiry(h.taskTTL))
	m.Hydrate(r.Context())
	return m, nil
}

func pageData(m *todo.Manager) PageData {
	return PageData{
		Title:        "To-Do List",
		Loading:      m.Loading(),
		Tasks:        m.Tasks(),
		DeletedTasks: m.DeletedTasks(),
		Priorities:   models.Priorities(),
	}
}

// isHTMXRequest reports whether the request was initiated by htmx.
func isHTMXRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// respondMutation re-renders the card for htmx and redirects plain form posts.
func (h *Handlers) respondMutation(w http.ResponseWriter, r *http.Request, m *todo.Manager) {
	if isHTMXRequest(r) {
		h.render(w, "todo.html", pageData(m))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}
