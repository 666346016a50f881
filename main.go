package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/store"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	provider, backend, err := openProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	if backend != nil {
		defer backend.Close()
		go purgeLoop(ctx, backend, cfg.PurgeInterval)
	}

	// Parse templates
	tmpl, err := parseTemplates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	h := handlers.New(provider, tmpl, cfg.TaskTTL())

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/", h.Home)

	r.Post("/tasks", h.CreateTask)
	r.Post("/tasks/{id}/completed", h.SetTaskCompleted)
	r.Post("/tasks/{id}/priority", h.SetTaskPriority)
	r.Post("/tasks/{id}/delete", h.DeleteTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	r.Get("/api/tasks", h.ListTasks)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	log.Printf("Starting server on http://localhost%s (store: %s)", srv.Addr, cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// openProvider builds the store provider for the configured backend. The
// returned Backend is nil when state lives in browser cookies.
func openProvider(cfg config.Config) (store.Provider, store.Backend, error) {
	var (
		backend store.Backend
		err     error
	)

	switch cfg.StoreBackend {
	case config.BackendCookie:
		return store.CookieProvider{Secure: cfg.SecureCookies}, nil, nil
	case config.BackendSQLite:
		if err := ensureDir(cfg.DBPath); err != nil {
			return nil, nil, err
		}
		backend, err = store.NewSQLiteBackend(cfg.DBPath)
	case config.BackendBolt:
		if err := ensureDir(cfg.BoltPath); err != nil {
			return nil, nil, err
		}
		backend, err = store.NewBoltBackend(cfg.BoltPath)
	case config.BackendMemory:
		backend = store.NewMemoryBackend()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, nil, err
	}

	provider := &store.SessionProvider{
		Backend: backend,
		Secure:  cfg.SecureCookies,
		TTL:     cfg.TaskTTL(),
	}
	return provider, backend, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// purgeLoop removes expired entries until ctx is done.
func purgeLoop(ctx context.Context, backend store.Backend, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := backend.Purge(ctx, time.Now())
		if err != nil && ctx.Err() == nil {
			log.Printf("Purge failed: %v", err)
		} else if n > 0 {
			log.Printf("Purged %d expired entries", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	patterns := []string{
		"templates/*.html",
		"templates/partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := templatesFS.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := filepath.Base(match)
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	return tmpl, nil
}
