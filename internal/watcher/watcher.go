// Package watcher auto-ingests documents dropped into a watched
// directory.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// settleDelay is how long a file must stay quiet after its last event
// before it is read. Editors and browsers write in several bursts.
const settleDelay = 500 * time.Millisecond

// Watcher observes a directory and ingests files as they appear.
type Watcher struct {
	dir    string
	ingest driving.IngestService
	delay  time.Duration
}

// Option customises watcher behaviour.
type Option func(*Watcher)

// WithSettleDelay overrides the quiet period before a changed file is
// ingested.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New creates a watcher over dir.
func New(dir string, ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:    dir,
		ingest: ingest,
		delay:  settleDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until ctx is cancelled. File events are
// debounced per path so a file is ingested once per burst of writes.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	logger.Info("Watching %s for documents", w.dir)

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.wants(event) {
				continue
			}
			// Restart the per-path timer; the file is read only after
			// it stops changing.
			path := event.Name
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(w.delay, func() {
				w.ingestFile(ctx, path)
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// wants reports whether the event should trigger an ingestion.
func (w *Watcher) wants(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// ingestFile reads and ingests one file, logging failures.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	result, err := w.ingest.Ingest(ctx, content, filepath.Base(path))
	if err != nil {
		logger.Warn("Ingesting %s: %v", path, err)
		return
	}
	logger.Info("Auto-ingested %s: %d segments", result.Source, result.SegmentCount)
}
