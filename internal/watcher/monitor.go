// internal/watcher/monitor.go
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/ghosthand/internal/config"
)

// ErrFileParse marks a watched file whose contents could not be decoded.
// Always logged and skipped; never fatal to the monitor loop.
var ErrFileParse = errors.New("watcher: file parse failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Op classifies a normalized change.
type Op string

const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
)

// Change is the normalized record forwarded to the handler. Record carries
// the decoded contents for recognized structured files (JSON); it is nil for
// deletions and for formats the monitor does not parse.
type Change struct {
	Op     Op
	Path   string
	Record map[string]any
}

// Handler consumes normalized changes. Called from the monitor's delivery
// goroutine, never from the fsnotify loop, so a slow handler cannot stall
// the watcher.
type Handler func(Change)

// Monitor watches one external directory for the process lifetime and
// forwards normalized change records. Decode failures and watch errors are
// logged and survived; only a failure to establish the watch is fatal.
type Monitor struct {
	path    string
	limiter *rate.Limiter
	queue   int
	handler Handler
	logger  *zap.Logger
}

// NewMonitor builds a monitor from configuration.
func NewMonitor(cfg config.WatcherConfig, handler Handler, logger *zap.Logger) *Monitor {
	eps := cfg.EventsPerSecond
	if eps <= 0 {
		eps = 4.0
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 8
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 64
	}
	return &Monitor{
		path:    cfg.Path,
		limiter: rate.NewLimiter(rate.Limit(eps), burst),
		queue:   queue,
		handler: handler,
		logger:  logger.Named("watcher"),
	}
}

// Run watches the directory until ctx is cancelled. It always returns nil on
// cancellation; the only error paths are setup failures.
func (m *Monitor) Run(ctx context.Context) error {
	if info, err := os.Stat(m.path); err != nil {
		return fmt.Errorf("watcher: cannot watch %s: %w", m.path, err)
	} else if !info.IsDir() {
		return fmt.Errorf("watcher: %s is not a directory", m.path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(m.path); err != nil {
		return fmt.Errorf("watcher: adding %s: %w", m.path, err)
	}
	m.logger.Info("watching directory", zap.String("path", m.path))

	// Delivery is decoupled from the fsnotify loop through a bounded queue;
	// when the consumer falls behind, changes are dropped with a warning
	// rather than backing up into the watcher.
	changes := make(chan Change, m.queue)
	deliveryDone := make(chan struct{})
	go func() {
		defer close(deliveryDone)
		for ch := range changes {
			m.handler(ch)
		}
	}()
	defer func() {
		close(changes)
		<-deliveryDone
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("watch error", zap.Error(err))
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			change, deliver := m.normalize(ev)
			if !deliver {
				continue
			}
			select {
			case changes <- change:
			default:
				m.logger.Warn("change queue full, dropping",
					zap.String("path", change.Path),
					zap.String("op", string(change.Op)))
			}
		}
	}
}

// normalize maps an fsnotify event to a Change, applying the rate limiter
// and decoding recognized structured files. The second return is false when
// the event should not be delivered.
func (m *Monitor) normalize(ev fsnotify.Event) (Change, bool) {
	var op Op
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = OpDelete
	default:
		// Chmod and friends carry no content signal.
		return Change{}, false
	}

	// Editors doing atomic saves produce storms of events per logical
	// change; the limiter coalesces them.
	if !m.limiter.Allow() {
		m.logger.Debug("change rate limited", zap.String("path", ev.Name))
		return Change{}, false
	}

	change := Change{Op: op, Path: ev.Name}
	if op != OpDelete && strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		record, err := m.decode(ev.Name)
		if err != nil {
			m.logger.Warn("skipping malformed file",
				zap.String("path", ev.Name),
				zap.Error(err))
			return Change{}, false
		}
		change.Record = record
	}
	return change, true
}

// decode reads and parses a structured file.
func (m *Monitor) decode(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrFileParse, path, err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrFileParse, path, err)
	}
	return record, nil
}
