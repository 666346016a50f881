// Package todo owns the task-list state for one browser: the ongoing and
// deleted sequences, hydrated from and mirrored to an expiring store.
package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"todolist/internal/models"
	"todolist/internal/store"
)

// Keys under which the sequences are persisted.
const (
	TasksKey        = "tasks"
	DeletedTasksKey = "deletedTasks"
)

// DefaultExpiry is how long persisted sequences live after each write.
const DefaultExpiry = 7 * 24 * time.Hour

// maxIDAttempts bounds regeneration when a generated id is already taken.
const maxIDAttempts = 8

// Manager holds the active and deleted task sequences.
// It is not safe for concurrent use; build one per request.
type Manager struct {
	store   store.Store
	expiry  time.Duration
	newID   func() string
	tasks   []models.Task
	deleted []models.Task
	loading bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithExpiry sets how long persisted sequences live.
func WithExpiry(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.expiry = d
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a manager in the loading state.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		expiry:  DefaultExpiry,
		newID:   uuid.NewString,
		tasks:   []models.Task{},
		deleted: []models.Task{},
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate loads both sequences from the store. Missing or unreadable data
// yields an empty sequence. Only the first call has any effect.
func (m *Manager) Hydrate(ctx context.Context) {
	if !m.loading {
		return
	}

	seen := make(map[string]bool)
	m.tasks = m.load(ctx, TasksKey, seen)
	m.deleted = m.load(ctx, DeletedTasksKey, seen)
	m.loading = false
}

func (m *Manager) load(ctx context.Context, key string, seen map[string]bool) []models.Task {
	tasks := []models.Task{}

	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		log.Printf("todo: read %s: %v", key, err)
		return tasks
	}
	if !ok {
		return tasks
	}

	var stored []*models.Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("todo: discarding unreadable %s: %v", key, err)
		return tasks
	}

	for _, t := range stored {
		if t == nil || strings.TrimSpace(t.ID) == "" || seen[t.ID] {
			continue
		}
		if !t.Priority.Valid() {
			t.Priority = models.PriorityLow
		}
		seen[t.ID] = true
		tasks = append(tasks, *t)
	}
	return tasks
}

// Loading reports whether hydration has not yet completed.
func (m *Manager) Loading() bool {
	return m.loading
}

// Tasks returns the active sequence in display order.
func (m *Manager) Tasks() []models.Task {
	return append([]models.Task(nil), m.tasks...)
}

// DeletedTasks returns the deleted sequence in display order.
func (m *Manager) DeletedTasks() []models.Task {
	return append([]models.Task(nil), m.deleted...)
}

// Add appends a new incomplete task to the active sequence. A blank title or
// an unknown priority is ignored and Add reports false. An empty priority
// means low.
func (m *Manager) Add(ctx context.Context, title, description string, priority models.Priority) (models.Task, bool) {
	if m.loading {
		return models.Task{}, false
	}
	if priority == "" {
		priority = models.PriorityLow
	}
	title = strings.TrimSpace(title)
	if title == "" || !priority.Valid() {
		return models.Task{}, false
	}

	task := models.Task{
		ID:          m.generateID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Priority:    priority,
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, false
	}

	prevTasks, prevDeleted := m.snapshot()
	m.tasks = append(m.tasks, task)
	if !m.commit(ctx, prevTasks, prevDeleted) {
		return models.Task{}, false
	}
	return task, true
}

func (m *Manager) generateID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := m.newID()
		if id != "" && m.indexOf(m.tasks, id) < 0 && m.indexOf(m.deleted, id) < 0 {
			return id
		}
	}
	return ""
}

// SetCompleted overwrites the completed flag of an active task.
func (m *Manager) SetCompleted(ctx context.Context, id string, completed bool) bool {
	i := m.indexOf(m.tasks, id)
	if m.loading || i < 0 {
		return false
	}

	prevTasks, prevDeleted := m.snapshot()
	m.tasks[i].Completed = completed
	return m.commit(ctx, prevTasks, prevDeleted)
}

// SetPriority overwrites the priority of an active task.
func (m *Manager) SetPriority(ctx context.Context, id string, priority models.Priority) bool {
	i := m.indexOf(m.tasks, id)
	if m.loading || i < 0 || !priority.Valid() {
		return false
	}

	prevTasks, prevDeleted := m.snapshot()
	m.tasks[i].Priority = priority
	return m.commit(ctx, prevTasks, prevDeleted)
}

// Delete moves an active task to the end of the deleted sequence.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	i := m.indexOf(m.tasks, id)
	if m.loading || i < 0 {
		return false
	}

	prevTasks, prevDeleted := m.snapshot()
	task := m.tasks[i]
	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	m.deleted = append(m.deleted, task)
	return m.commit(ctx, prevTasks, prevDeleted)
}

func (m *Manager) indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshot() (tasks, deleted []models.Task) {
	return append([]models.Task{}, m.tasks...), append([]models.Task{}, m.deleted...)
}

// commit persists the current state. When that fails the state reverts to
// the snapshot and the mutation reports false.
func (m *Manager) commit(ctx context.Context, prevTasks, prevDeleted []models.Task) bool {
	if err := m.persist(ctx, prevTasks); err != nil {
		log.Printf("todo: mutation not saved: %v", err)
		m.tasks = prevTasks
		m.deleted = prevDeleted
		return false
	}
	return true
}

// persist writes both sequences or neither. Values are checked up front when
// the store supports it; if the second write still fails, the first key is
// rewritten with prevTasks.
func (m *Manager) persist(ctx context.Context, prevTasks []models.Task) error {
	tasksData, err := json.Marshal(m.tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", TasksKey, err)
	}
	deletedData, err := json.Marshal(m.deleted)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DeletedTasksKey, err)
	}

	if c, ok := m.store.(store.Checker); ok {
		if err := c.Check(TasksKey, string(tasksData)); err != nil {
			return err
		}
		if err := c.Check(DeletedTasksKey, string(deletedData)); err != nil {
			return err
		}
	}

	if err := m.store.Set(ctx, TasksKey, string(tasksData), m.expiry); err != nil {
		return fmt.Errorf("write %s: %w", TasksKey, err)
	}
	if err := m.store.Set(ctx, DeletedTasksKey, string(deletedData), m.expiry); err != nil {
		if prev, perr := json.Marshal(prevTasks); perr == nil {
			if rerr := m.store.Set(ctx, TasksKey, string(prev), m.expiry); rerr != nil {
				log.Printf("todo: restore %s: %v", TasksKey, rerr)
			}
		}
		return fmt.Errorf("write %s: %w", DeletedTasksKey, err)
	}
	return nil
}
