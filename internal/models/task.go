package models

import (
	"errors"
	"sort"
	"strings"
)

// Priority is the informational urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var errInvalidPriority = errors.New("priority must be 'high', 'medium', or 'low'")

// ParsePriority converts a form or JSON value into a Priority.
// An empty value yields PriorityLow.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityLow, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", errInvalidPriority
	}
	return p, nil
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Order returns a numeric value for sorting by priority.
// Lower numbers indicate higher priority.
func (p Priority) Order() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// Priorities returns every valid priority, most urgent first.
func Priorities() []Priority {
	ps := []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Order() < ps[j].Order() })
	return ps
}

// Task represents a single to-do item.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is required")
	}

	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}

	if !t.Priority.Valid() {
		return errInvalidPriority
	}

	return nil
}
