// internal/hotkeys/dispatcher.go
package hotkeys

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/session"
	"github.com/xkilldash9x/ghosthand/internal/workflow"
)

// Registrar is the global hotkey capability. Implementations own the OS
// listener thread and invoke callbacks asynchronously; binding the platform
// APIs is outside this core.
type Registrar interface {
	Register(combo string, fn func()) error
}

// Dispatcher binds the four session hotkeys to controller transitions. Each
// callback runs the transition on its own goroutine so the registrar's
// listener is never blocked behind a workflow step.
type Dispatcher struct {
	registrar  Registrar
	controller *session.Controller
	logger     *zap.Logger
}

// NewDispatcher creates a dispatcher for the given controller.
func NewDispatcher(r Registrar, c *session.Controller, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registrar:  r,
		controller: c,
		logger:     logger.Named("hotkeys"),
	}
}

// Bind registers all four combos. A failed registration is fatal: a control
// surface with missing keys is worse than none.
func (d *Dispatcher) Bind(cfg config.HotkeysConfig) error {
	bindings := []struct {
		combo string
		name  string
		fn    func()
	}{
		{cfg.StartBrowser, "start_browser", func() { d.start(workflow.BrowserWorkflowID) }},
		{cfg.StartEditor, "start_editor", func() { d.start(workflow.EditorWorkflowID) }},
		{cfg.PauseResume, "pause_resume", d.controller.Toggle},
		{cfg.Stop, "stop", d.controller.Stop},
	}

	for _, b := range bindings {
		name, fn := b.name, b.fn
		combo := b.combo
		err := d.registrar.Register(combo, func() {
			// Hotkey events must never wait on session work.
			go func() {
				d.logger.Debug("hotkey fired", zap.String("hotkey", name), zap.String("combo", combo))
				fn()
			}()
		})
		if err != nil {
			return fmt.Errorf("hotkeys: registering %s (%s): %w", name, combo, err)
		}
		d.logger.Info("hotkey bound", zap.String("hotkey", name), zap.String("combo", combo))
	}
	return nil
}

// start requests a workflow start and logs refusals instead of propagating
// them; a rejected hotkey press is an operator notice, not a fault.
func (d *Dispatcher) start(workflowID string) {
	if err := d.controller.Start(workflowID); err != nil {
		if errors.Is(err, session.ErrAlreadyRunning) {
			d.logger.Warn("start ignored, session busy", zap.String("workflow", workflowID))
			return
		}
		d.logger.Error("start failed", zap.String("workflow", workflowID), zap.Error(err))
	}
}
