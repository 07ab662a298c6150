package syncbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

const (
	relayExt       = ".json"
	relayTmpPrefix = ".tmp-"

	// DefaultRelayTTL is how long a relay file is kept for late readers.
	DefaultRelayTTL = time.Minute
)

// relayEnvelope is the content of one relay file.
type relayEnvelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// Relay passes events between processes on one host through a spool
// directory. Each event is one file, written under a temporary name and
// renamed into place so readers never see a partial write. Files are
// removed once they are older than the TTL.
type Relay struct {
	dir    string
	ttl    time.Duration
	origin string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRelay returns a relay over dir. A ttl of zero selects DefaultRelayTTL.
func NewRelay(dir string, ttl time.Duration) *Relay {
	if ttl <= 0 {
		ttl = DefaultRelayTTL
	}
	return &Relay{dir: dir, ttl: ttl, origin: uuid.NewString()}
}

func (r *Relay) Name() string { return "relay:" + r.dir }

// Start watches the spool directory. Only files that appear after Start
// are delivered.
func (r *Relay) Start(ctx context.Context, deliver func(Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watcher != nil {
		return nil
	}

	if err := os.MkdirAll(r.dir, 0750); err != nil {
		return fmt.Errorf("could not create relay directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create relay watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("could not watch relay directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	r.watcher = watcher
	r.cancel = cancel
	r.prune()

	r.wg.Add(1)
	go r.run(ctx, watcher, deliver)
	slog.Debug("Sync relay started", "dir", r.dir, "origin", r.origin)
	return nil
}

func (r *Relay) run(ctx context.Context, watcher *fsnotify.Watcher, deliver func(Event)) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !isRelayFile(ev.Name) {
				continue
			}
			r.read(ev.Name, deliver)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Sync relay watcher error", "dir", r.dir, "error", err)
		case <-ticker.C:
			r.prune()
		}
	}
}

func isRelayFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, relayExt) && !strings.HasPrefix(base, ".")
}

func (r *Relay) read(path string, deliver func(Event)) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Pruned or still being replaced; either way there is nothing to do.
		slog.Debug("Sync relay file unreadable", "path", path, "error", err)
		return
	}
	var env relayEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("Sync relay file is malformed", "path", path, "error", err)
		return
	}
	if env.Origin == r.origin {
		return
	}
	deliver(env.Event)
}

// Send writes ev to the spool directory.
func (r *Relay) Send(_ context.Context, ev Event) error {
	data, err := json.Marshal(relayEnvelope{Origin: r.origin, Event: ev})
	if err != nil {
		return fmt.Errorf("could not encode relay event: %w", err)
	}
	name := fmt.Sprintf("%013d-%s%s", ev.Timestamp, uuid.NewString(), relayExt)
	tmp := filepath.Join(r.dir, relayTmpPrefix+name)
	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return fmt.Errorf("could not write relay file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("could not publish relay file: %w", err)
	}
	return nil
}

// prune removes relay files older than the TTL.
func (r *Relay) prune() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		slog.Warn("Could not list relay directory", "dir", r.dir, "error", err)
		return
	}
	cutoff := time.Now().Add(-r.ttl)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), relayExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			slog.Debug("Could not prune relay file", "name", e.Name(), "error", err)
		}
	}
}

// Close stops watching and waits for the watch goroutine to exit.
func (r *Relay) Close() error {
	r.mu.Lock()
	watcher, cancel := r.watcher, r.cancel
	r.watcher, r.cancel = nil, nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	cancel()
	err := watcher.Close()
	r.wg.Wait()
	return err
}

var _ Transport = (*Relay)(nil)
