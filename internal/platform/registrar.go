// internal/platform/registrar.go
package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// PipeRegistrar implements the hotkey capability over a control FIFO. The
// actual global key grab lives in whatever the operator already runs for
// that job (skhd, Hammerspoon, AutoHotkey); those tools are configured to
// echo the combo string into the pipe, and this registrar dispatches to the
// bound callback. Keeping the key grab external avoids cgo and the
// accessibility entitlement a native event tap would need.
type PipeRegistrar struct {
	path   string
	logger *zap.Logger

	mu       sync.Mutex
	bindings map[string]func()
}

// NewPipeRegistrar creates a registrar listening on the given FIFO path.
func NewPipeRegistrar(path string, logger *zap.Logger) *PipeRegistrar {
	return &PipeRegistrar{
		path:     path,
		logger:   logger.Named("hotkeypipe"),
		bindings: make(map[string]func()),
	}
}

// Register binds a combo to a callback. Later registrations for the same
// combo are an error; silent rebinding hides configuration mistakes.
func (p *PipeRegistrar) Register(combo string, fn func()) error {
	key := normalizeCombo(combo)
	if key == "" {
		return fmt.Errorf("platform: empty hotkey combo")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.bindings[key]; exists {
		return fmt.Errorf("platform: combo %q registered twice", combo)
	}
	p.bindings[key] = fn
	return nil
}

// Listen creates the FIFO if needed and dispatches lines until ctx is
// cancelled. Unrecognized lines are logged and ignored; the listener itself
// never dies to a bad write.
func (p *PipeRegistrar) Listen(ctx context.Context) error {
	if err := syscall.Mkfifo(p.path, 0o600); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("platform: creating control pipe %s: %w", p.path, err)
	}

	// O_RDWR keeps a write end open on our side so reads never hit EOF when
	// an external writer disconnects.
	pipe, err := os.OpenFile(p.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("platform: opening control pipe %s: %w", p.path, err)
	}

	go func() {
		<-ctx.Done()
		pipe.Close()
	}()

	p.logger.Info("control pipe listening", zap.String("path", p.path))

	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		line := normalizeCombo(scanner.Text())
		if line == "" {
			continue
		}
		p.mu.Lock()
		fn, ok := p.bindings[line]
		p.mu.Unlock()
		if !ok {
			p.logger.Warn("unbound control command", zap.String("command", line))
			continue
		}
		fn()
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("platform: control pipe read: %w", err)
	}
	return nil
}

// normalizeCombo canonicalizes a combo string for lookup.
func normalizeCombo(combo string) string {
	return strings.ToLower(strings.TrimSpace(combo))
}
