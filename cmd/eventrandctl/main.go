// Command eventrandctl exposes a read-only HTTP surface over a running
// Dispatcher: metrics, subscription counts, and a liveness probe. It is
// additive — embedders that only need the events/random packages can
// ignore this binary entirely (SPEC_FULL.md §6).
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hun756/axrone/events"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "optional config file consulted by events.LoadOptions")
	authUser := flag.String("auth-user", "admin", "basic auth username, consulted only if -auth-hash is set")
	authHash := flag.String("auth-hash", os.Getenv("EVENTRANDCTL_AUTH_HASH"), "bcrypt hash of the basic auth password; empty disables auth")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	opts := events.DefaultOptions()
	if *configPath != "" {
		loaded, err := events.LoadOptions(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		opts = loaded
	}

	d := events.New(opts)
	defer d.Dispose()

	if *configPath != "" {
		watcher, err := events.WatchConfig(d, *configPath)
		if err != nil {
			logger.Warn("config watch disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(basicAuth(*authUser, *authHash))

	r.Get("/health", healthHandler(d))
	r.Get("/events", eventsHandler(d))
	r.Get("/metrics", metricsHandler(d))

	logger.Info("eventrandctl listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func healthHandler(d *events.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.IsDisposed() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

type eventSummary struct {
	Name          string `json:"name"`
	ListenerCount int    `json:"listener_count"`
}

func eventsHandler(d *events.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := d.EventNames()
		summaries := make([]eventSummary, len(names))
		for i, name := range names {
			summaries[i] = eventSummary{Name: name, ListenerCount: d.ListenerCount(name)}
		}
		writeJSON(w, summaries)
	}
}

func metricsHandler(d *events.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := d.EventNames()
		snapshot := make(map[string]events.EmitMetrics, len(names))
		for _, name := range names {
			snapshot[name] = d.Metrics().Get(name)
		}
		writeJSON(w, snapshot)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
