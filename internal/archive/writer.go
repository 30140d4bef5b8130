// Package archive keeps a compressed audit log of every event and image
// product the spacecraft emits.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"

	"satellite_simulator/internal/logging"
	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
)

const (
	EventsFile   = "events.jsonl.sz"
	ManifestFile = "manifest.json"
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("archive closed")

// Manifest describes the archive layout so tooling can locate artefacts.
type Manifest struct {
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at"`
	EventsPath string `json:"events_path"`
}

// Entry is one line of the event log.
type Entry struct {
	Cycle      uint64     `json:"cycle"`
	CapturedAt string     `json:"captured_at"`
	Kind       model.Kind `json:"kind"`
	Sequence   uint32     `json:"sequence_count"`
	Timestamp  time.Time  `json:"timestamp"`
	Message    string     `json:"message,omitempty"`

	// Image products are logged as metadata only
	CollectType string  `json:"collect_type,omitempty"`
	DurationSec float64 `json:"duration,omitempty"`
	ImageBytes  int     `json:"image_bytes,omitempty"`
}

// Writer streams events to a snappy-framed JSONL file.
type Writer struct {
	mu      sync.Mutex
	dir     string
	now     func() time.Time
	log     logging.Logger
	file    *os.File
	stream  *snappy.Writer
	entries int
	closed  bool
}

// NewWriter creates a timestamped directory under root and opens the log.
func NewWriter(root string, clock func() time.Time, log logging.Logger) (*Writer, Manifest, error) {
	if root == "" {
		return nil, Manifest{}, fmt.Errorf("archive root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logging.Noop()
	}

	created := clock().UTC()
	dir := filepath.Join(root, "satsim-"+created.Format("20060102T150405Z"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, fmt.Errorf("create archive dir: %w", err)
	}

	manifest := Manifest{
		Version:    1,
		CreatedAt:  created.Format(time.RFC3339Nano),
		EventsPath: EventsFile,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return nil, Manifest{}, fmt.Errorf("write manifest: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, EventsFile))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("create event log: %w", err)
	}

	return &Writer{
		dir:    dir,
		now:    clock,
		log:    log.With(logging.String("component", "archive")),
		file:   f,
		stream: snappy.NewBufferedWriter(f),
	}, manifest, nil
}

// Directory exposes the directory backing the archive.
func (w *Writer) Directory() string { return w.dir }

// Entries reports how many lines have been written.
func (w *Writer) Entries() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries
}

// Append logs an event or image record. Other kinds are ignored.
func (w *Writer) Append(cycle uint64, r model.Record) error {
	e := Entry{Cycle: cycle, CapturedAt: w.now().UTC().Format(time.RFC3339Nano), Kind: r.Kind()}
	switch rec := r.(type) {
	case model.Event:
		e.Sequence, e.Timestamp = rec.Sequence, rec.Timestamp
		e.Message = rec.Message
	case model.Image:
		e.Sequence, e.Timestamp = rec.Sequence, rec.Timestamp
		e.CollectType, e.DurationSec, e.ImageBytes = rec.CollectType, rec.DurationSec, len(rec.Data)
	default:
		return nil
	}

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, err := w.stream.Write(line); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}
	w.entries++
	return nil
}

// OnBatch implements simulator.Callback.
func (w *Writer) OnBatch(b simulator.Batch) {
	for _, r := range b.Records {
		if r.Kind().Periodic() {
			continue
		}
		if err := w.Append(b.Cycle, r); err != nil {
			w.log.Error("archive append failed", logging.Err(err))
			return
		}
	}
}

// OnState implements simulator.Callback.
func (w *Writer) OnState(simulator.State) {}

// Close flushes the stream and releases the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	if err := w.stream.Close(); err != nil {
		firstErr = err
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
