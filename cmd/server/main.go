package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"satellite_simulator/internal/archive"
	"satellite_simulator/internal/config"
	"satellite_simulator/internal/logging"
	"satellite_simulator/internal/metrics"
	"satellite_simulator/internal/replay"
	"satellite_simulator/internal/simulator"
	"satellite_simulator/internal/store"
	"satellite_simulator/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	frontendDir := flag.String("frontend-dir", "frontend/build", "directory containing frontend build")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	if err := run(cfg, *frontendDir, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, frontendDir string, logger logging.Logger) error {
	replays, err := openReplays(cfg.Replay, logger)
	if err != nil {
		return err
	}
	defer replays.Close()

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	dataStore := store.New(cfg.Store.EventLimit)
	hub := ws.NewHub(logger)
	callbacks := simulator.MultiCallback{dataStore, ws.NewBridge(hub, logger)}

	if cfg.Archive.Dir != "" {
		w, _, err := archive.NewWriter(cfg.Archive.Dir, nil, logger)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer w.Close()
		callbacks = append(callbacks, w)
		logger.Info("archiving events", logging.String("dir", w.Directory()))
	}

	ec := cfg.EngineConfig()
	ec.Logger = logger
	ec.Recorder = collector
	replays.apply(&ec)
	engine := simulator.New(ec, callbacks)

	mux := newMux(engine, dataStore, ws.NewHandler(hub, engine, dataStore, logger), collector.Handler())
	if _, err := os.Stat(frontendDir); err == nil {
		logger.Info("serving frontend", logging.String("dir", frontendDir))
		mux.Handle("/", http.FileServer(http.Dir(frontendDir)))
	}

	if cfg.Sim.Autostart {
		engine.Start()
	}
	defer engine.Stop()

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", logging.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMux registers the HTTP routes.
func newMux(engine *simulator.Engine, st *store.Store, wsHandler, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", wsHandler)
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /api/telemetry", func(w http.ResponseWriter, r *http.Request) {
		payload := ws.SnapshotFromStore(st.Snapshot(), engine.Snapshot())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return mux
}

// replaySources holds the optional orbital replay files.
type replaySources struct {
	position *replay.Source
	attitude *replay.Source
}

func openReplays(cfg config.ReplayConfig, logger logging.Logger) (replaySources, error) {
	var r replaySources
	var err error
	if cfg.Position != "" {
		if r.position, err = replay.Open(cfg.Position, replay.PositionSize); err != nil {
			return r, fmt.Errorf("open position replay: %w", err)
		}
		logger.Info("position replay loaded", logging.String("path", cfg.Position), logging.Any("bytes", r.position.Size()))
	}
	if cfg.Attitude != "" {
		if r.attitude, err = replay.Open(cfg.Attitude, replay.AttitudeSize); err != nil {
			r.Close()
			return replaySources{}, fmt.Errorf("open attitude replay: %w", err)
		}
		logger.Info("attitude replay loaded", logging.String("path", cfg.Attitude), logging.Any("bytes", r.attitude.Size()))
	}
	if r.position == nil && r.attitude == nil {
		logger.Warn("no replay files configured, ADCS telemetry will report zeros")
	}
	return r, nil
}

// apply sets only the sources that exist so the engine never sees a typed
// nil.
func (r replaySources) apply(ec *simulator.Config) {
	if r.position != nil {
		ec.Position = r.position
	}
	if r.attitude != nil {
		ec.Attitude = r.attitude
	}
}

func (r replaySources) Close() {
	if r.position != nil {
		r.position.Close()
	}
	if r.attitude != nil {
		r.attitude.Close()
	}
}
